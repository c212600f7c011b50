package docker

import (
	"context"
	"fmt"

	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
)

// ImageInspector is the part of the engine API used to describe images.
type ImageInspector interface {
	ImageInspect(ctx context.Context, imageID string, opts ...client.ImageInspectOption) (image.InspectResponse, error)
}

// ImageInfo summarizes a local image.
type ImageInfo struct {
	ID       string
	RepoTags []string
	Size     int64
	Created  string
	Labels   map[string]string
}

// GetImageInfo inspects the image with the given ID or tag.
func GetImageInfo(ctx context.Context, cli ImageInspector, imageID string) (*ImageInfo, error) {
	resp, err := cli.ImageInspect(ctx, imageID)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect image %s: %w", imageID, err)
	}

	info := &ImageInfo{
		ID:       resp.ID,
		RepoTags: resp.RepoTags,
		Size:     resp.Size,
		Created:  resp.Created,
	}
	if resp.Config != nil {
		info.Labels = resp.Config.Labels
	}
	return info, nil
}
