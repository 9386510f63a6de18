package docker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"

	"github.com/t0ffel/playbook2image/utils"
)

// Client wraps the docker API client with the handful of operations the
// test driver needs.
type Client struct {
	cli *client.Client
}

func NewClient() (*Client, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("creating docker client: %w", err)
	}
	return &Client{cli: cli}, nil
}

// ImageExists reports whether an image matching the reference is present
// in the local daemon.
func (c *Client) ImageExists(ctx context.Context, image string) (bool, error) {
	filter := filters.NewArgs()
	filter.Add("reference", image)

	results, err := c.cli.ImageList(ctx, types.ImageListOptions{Filters: filter})
	if err != nil {
		return false, fmt.Errorf("listing images: %w", err)
	}
	return len(results) != 0, nil
}

func (c *Client) RemoveImage(ctx context.Context, image string) error {
	_, err := c.cli.ImageRemove(ctx, image, types.ImageRemoveOptions{Force: true, PruneChildren: true})
	if err != nil {
		return fmt.Errorf("removing image %s: %w", image, err)
	}
	return nil
}

// Run creates and starts a container, pulling the image first when it is
// not available locally.
func (c *Client) Run(ctx context.Context, name string, config *container.Config, hostConfig *container.HostConfig, netConfig *network.NetworkingConfig) (*Container, error) {
	if err := c.pullImageIfNotExists(ctx, config.Image); err != nil {
		return nil, err
	}

	response, err := c.cli.ContainerCreate(ctx, config, hostConfig, netConfig, nil, name)
	if err != nil {
		return nil, fmt.Errorf("creating container from %s: %w", config.Image, err)
	}

	result := &Container{ID: response.ID, cli: c.cli}
	if err := c.cli.ContainerStart(ctx, result.ID, types.ContainerStartOptions{}); err != nil {
		return nil, fmt.Errorf("starting container %s: %w", result.ID, err)
	}
	return result, nil
}

// ContainerFromID returns a handle for a container started outside this
// client, e.g. one whose id came from a CID file.
func (c *Client) ContainerFromID(id string) *Container {
	return &Container{ID: id, cli: c.cli}
}

func (c *Client) pullImageIfNotExists(ctx context.Context, image string) error {
	exists, err := c.ImageExists(ctx, image)
	if err != nil || exists {
		return err
	}

	response, err := c.cli.ImagePull(ctx, image, types.ImagePullOptions{})
	if err != nil {
		return fmt.Errorf("pulling %s: %w", image, err)
	}
	defer response.Close()
	_, err = io.Copy(io.Discard, response)
	return err
}

// Container is a handle to a single container.
type Container struct {
	ID string

	cli *client.Client
}

func (c *Container) Inspect(ctx context.Context) (types.ContainerJSON, error) {
	return c.cli.ContainerInspect(ctx, c.ID)
}

// Wait blocks until the container stops running and returns its exit code.
func (c *Container) Wait(ctx context.Context) (int, error) {
	waitCh, errCh := c.cli.ContainerWait(ctx, c.ID, container.WaitConditionNotRunning)
	select {
	case err := <-errCh:
		return 0, fmt.Errorf("waiting for container %s: %w", c.ID, err)
	case result := <-waitCh:
		if result.Error != nil {
			return int(result.StatusCode), errors.New(result.Error.Message)
		}
		return int(result.StatusCode), nil
	}
}

// Logs copies the container's output into stdout and stderr.
func (c *Container) Logs(ctx context.Context, stdout, stderr io.Writer) error {
	reader, err := c.cli.ContainerLogs(ctx, c.ID, types.ContainerLogsOptions{ShowStdout: true, ShowStderr: true})
	if err != nil {
		return fmt.Errorf("reading logs of %s: %w", c.ID, err)
	}
	defer reader.Close()
	_, err = stdcopy.StdCopy(stdout, stderr, reader)
	return err
}

// ExecAndWait runs a command inside the container, discarding its output,
// and returns the command's exit code.
func (c *Container) ExecAndWait(ctx context.Context, command ...string) (int, error) {
	return c.ExecAndOutput(ctx, io.Discard, io.Discard, command...)
}

// ExecAndOutput runs a command inside the container, streaming its output,
// and returns the command's exit code.
func (c *Container) ExecAndOutput(ctx context.Context, stdout, stderr io.Writer, command ...string) (int, error) {
	log.Debug("running in container", "id", c.ID, "command", strings.Join(command, " "))

	response, err := c.cli.ContainerExecCreate(ctx, c.ID, types.ExecConfig{
		AttachStdout: true,
		AttachStderr: true,
		Cmd:          command,
	})
	if err != nil {
		return 0, fmt.Errorf("creating exec in %s: %w", c.ID, err)
	}

	hijacked, err := c.cli.ContainerExecAttach(ctx, response.ID, types.ExecStartCheck{})
	if err != nil {
		return 0, fmt.Errorf("attaching to exec in %s: %w", c.ID, err)
	}
	defer hijacked.Close()
	if _, err := stdcopy.StdCopy(stdout, stderr, hijacked.Reader); err != nil {
		return 0, err
	}

	inspect, err := c.cli.ContainerExecInspect(ctx, response.ID)
	if err != nil {
		return 0, fmt.Errorf("inspecting exec in %s: %w", c.ID, err)
	}
	return inspect.ExitCode, nil
}

// CopyContentTo places content at path inside the container using an
// in-memory tar archive.
func (c *Container) CopyContentTo(ctx context.Context, path, content string) error {
	archive := utils.NewInMemoryArchive()
	if err := archive.Add(filepath.Base(path), content); err != nil {
		return err
	}
	buf, err := archive.Close()
	if err != nil {
		return err
	}

	if err := c.cli.CopyToContainer(ctx, c.ID, filepath.Dir(path), buf, types.CopyToContainerOptions{}); err != nil {
		return fmt.Errorf("copying to %s:%s: %w", c.ID, path, err)
	}
	return nil
}

func (c *Container) StopAndRemove(ctx context.Context) error {
	if err := c.cli.ContainerStop(ctx, c.ID, container.StopOptions{}); err != nil {
		log.Warn("stopping container failed", "id", c.ID, "error", err)
	}
	return c.Remove(ctx)
}

func (c *Container) Remove(ctx context.Context) error {
	if err := c.cli.ContainerRemove(ctx, c.ID, types.ContainerRemoveOptions{RemoveVolumes: true}); err != nil {
		return fmt.Errorf("removing container %s: %w", c.ID, err)
	}
	return nil
}
