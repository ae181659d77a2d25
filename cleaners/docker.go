package cleaners

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/volume"
	"github.com/docker/docker/client"

	"github.com/tinyland-lab/reclaim/model"
)

// DockerCleaner reports reclaimable Docker state: dangling images, stopped
// containers, and unused volumes, via the real Docker Engine API instead
// of shelling out to the docker CLI.
type DockerCleaner struct {
	api *client.Client
}

// NewDockerCleaner connects to the local Docker daemon. Returns
// (nil, nil) -- not an error -- when Docker isn't reachable, so an
// optional dependency never fails a whole scan.
func NewDockerCleaner(ctx context.Context) (*DockerCleaner, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, nil
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if _, err := cli.Ping(pingCtx); err != nil {
		_ = cli.Close()
		return nil, nil
	}
	return &DockerCleaner{api: cli}, nil
}

// Close releases the underlying Docker API client.
func (d *DockerCleaner) Close() error {
	if d == nil || d.api == nil {
		return nil
	}
	return d.api.Close()
}

// Scan returns one CleanableItem per dangling image, stopped container, and
// unused (unreferenced) volume found on the daemon. All three are reported
// with RequiresShell set, since their removal is a Docker Engine API call
// (image/container/volume remove), not a filesystem delete.
func (d *DockerCleaner) Scan(ctx context.Context) ([]model.CleanableItem, error) {
	if d == nil || d.api == nil {
		return nil, nil
	}

	var out []model.CleanableItem

	images, err := d.danglingImages(ctx)
	if err != nil {
		return nil, fmt.Errorf("cleaners: listing dangling images: %w", err)
	}
	out = append(out, images...)

	containers, err := d.stoppedContainers(ctx)
	if err != nil {
		return nil, fmt.Errorf("cleaners: listing stopped containers: %w", err)
	}
	out = append(out, containers...)

	volumes, err := d.unusedVolumes(ctx)
	if err != nil {
		return nil, fmt.Errorf("cleaners: listing unused volumes: %w", err)
	}
	out = append(out, volumes...)

	return out, nil
}

func (d *DockerCleaner) danglingImages(ctx context.Context) ([]model.CleanableItem, error) {
	args := filters.NewArgs()
	args.Add("dangling", "true")
	images, err := d.api.ImageList(ctx, types.ImageListOptions{Filters: args})
	if err != nil {
		return nil, err
	}

	var out []model.CleanableItem
	for _, img := range images {
		out = append(out, model.CleanableItem{
			Name:          img.ID,
			Category:      "docker",
			Subcategory:   "dangling-image",
			Icon:          "docker",
			Path:          "docker-image:" + img.ID,
			Bytes:         img.Size,
			Description:   "dangling image",
			Safety:        model.SafetyLevelSafeWithCost,
			SuggestedCmd:  "docker rmi " + img.ID,
			RequiresShell: true,
			RestoreCmd:    []string{"docker", "rmi", img.ID},
		})
	}
	return out, nil
}

func (d *DockerCleaner) stoppedContainers(ctx context.Context) ([]model.CleanableItem, error) {
	args := filters.NewArgs()
	args.Add("status", "exited")
	args.Add("status", "dead")
	containers, err := d.api.ContainerList(ctx, container.ListOptions{All: true, Filters: args})
	if err != nil {
		return nil, err
	}

	var out []model.CleanableItem
	for _, c := range containers {
		out = append(out, model.CleanableItem{
			Name:          c.ID,
			Category:      "docker",
			Subcategory:   "stopped-container",
			Icon:          "docker",
			Path:          "docker-container:" + c.ID,
			Bytes:         c.SizeRw,
			Description:   fmt.Sprintf("stopped container (%s)", c.Image),
			Safety:        model.SafetyLevelSafeWithCost,
			SuggestedCmd:  "docker rm " + c.ID,
			RequiresShell: true,
			RestoreCmd:    []string{"docker", "rm", c.ID},
		})
	}
	return out, nil
}

func (d *DockerCleaner) unusedVolumes(ctx context.Context) ([]model.CleanableItem, error) {
	args := filters.NewArgs()
	args.Add("dangling", "true")
	resp, err := d.api.VolumeList(ctx, volume.ListOptions{Filters: args})
	if err != nil {
		return nil, err
	}

	var out []model.CleanableItem
	for _, v := range resp.Volumes {
		out = append(out, model.CleanableItem{
			Name:          v.Name,
			Category:      "docker",
			Subcategory:   "unused-volume",
			Icon:          "docker",
			Path:          "docker-volume:" + v.Name,
			Description:   "unreferenced volume",
			Safety:        model.SafetyLevelCaution,
			SuggestedCmd:  "docker volume rm " + v.Name,
			RequiresShell: true,
			RestoreCmd:    []string{"docker", "volume", "rm", v.Name},
		})
	}
	return out, nil
}
