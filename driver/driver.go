package driver

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/docker/docker/api/types/container"

	"github.com/t0ffel/playbook2image/docker"
	"github.com/t0ffel/playbook2image/utils"
)

// Options configures a test run against a candidate image.
type Options struct {
	// Image is the candidate playbook2image image under test.
	Image string
	// Tag is the name given to the image built from the sample app.
	Tag string
	// Attempts and Delay bound every polling loop; fixed delay, no
	// backoff.
	Attempts int
	Delay    time.Duration
	// ProbeURL, when set, must answer 200 before the run passes.
	ProbeURL string
	// Keep skips teardown so failed runs can be inspected.
	Keep bool
}

// Driver exercises a candidate image end to end: two s2i builds (plain and
// incremental), the usage display, and a containerized playbook run
// against the embedded sample application. The first failing step aborts
// the run; teardown happens either way.
type Driver struct {
	opts   Options
	docker *docker.Client
	log    *log.Logger
	runCLI CommandRunner

	workDir    string
	containers []*docker.Container
}

func New(cli *docker.Client, opts Options) *Driver {
	return &Driver{
		opts:   opts,
		docker: cli,
		log:    log.Default(),
		runCLI: runCommand,
	}
}

func (d *Driver) Run(ctx context.Context) error {
	defer d.cleanup()

	exists, err := d.docker.ImageExists(ctx, d.opts.Image)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("candidate image %s not found, build it first", d.opts.Image)
	}

	appDir, err := d.stageSampleApp(ctx)
	if err != nil {
		return err
	}

	// The second build validates artifact save/restore across
	// incremental builds.
	if err := d.runCLI(ctx, "s2i", s2iBuildArgs(appDir, d.opts.Image, d.opts.Tag, false)...); err != nil {
		return err
	}
	if err := d.runCLI(ctx, "s2i", s2iBuildArgs(appDir, d.opts.Image, d.opts.Tag, true)...); err != nil {
		return err
	}

	if err := d.showUsage(ctx); err != nil {
		return err
	}
	if err := d.runTestContainer(ctx); err != nil {
		return err
	}
	if err := d.probe(ctx); err != nil {
		return err
	}

	d.log.Info("all tests passed", "image", d.opts.Image)
	return nil
}

// showUsage runs the candidate's usage display and requires it to exit 0.
func (d *Driver) showUsage(ctx context.Context) error {
	cont, err := d.docker.Run(ctx, "", &container.Config{
		Image: d.opts.Image,
		Cmd:   []string{"usage"},
	}, nil, nil)
	if err != nil {
		return err
	}
	d.containers = append(d.containers, cont)

	code, err := cont.Wait(ctx)
	if err != nil {
		return err
	}
	if err := cont.Logs(ctx, os.Stdout, os.Stderr); err != nil {
		return err
	}
	if code != 0 {
		return &utils.ExitError{Step: "usage display", Code: code}
	}
	return nil
}

// runTestContainer starts the built image with the sample playbook
// selected through the launcher's environment contract and requires the
// container to exit 0.
func (d *Driver) runTestContainer(ctx context.Context) error {
	cidFile := filepath.Join(d.workDir, "test.cid")
	if err := d.runCLI(ctx, "docker", dockerRunArgs(cidFile, d.opts.Tag)...); err != nil {
		return err
	}

	cid, err := d.waitForCID(ctx, cidFile)
	if err != nil {
		return err
	}

	cont := d.docker.ContainerFromID(cid)
	d.containers = append(d.containers, cont)

	info, err := cont.Inspect(ctx)
	if err != nil {
		return err
	}
	d.log.Info("test container started", "id", cid, "image", info.Config.Image)

	code, err := cont.Wait(ctx)
	if err != nil {
		return err
	}
	if code != 0 {
		if err := cont.Logs(context.Background(), os.Stdout, os.Stderr); err != nil {
			d.log.Warn("dumping container logs failed", "id", cid, "error", err)
		}
		return &utils.ExitError{Step: "test container", Code: code}
	}
	return nil
}

// waitForCID polls for the container runtime to write the CID file.
// Exhausting the attempt budget only logs a warning; the read below is
// what fails when the container never started.
// TODO: consider failing fast on exhaustion instead of relying on the read.
func (d *Driver) waitForCID(ctx context.Context, cidFile string) (string, error) {
	found := utils.Poll(ctx, d.opts.Attempts, d.opts.Delay, func() bool {
		return utils.Exists(cidFile)
	})
	if !found {
		d.log.Warn("container id file did not appear",
			"path", cidFile,
			"attempts", d.opts.Attempts,
		)
	}

	data, err := os.ReadFile(cidFile)
	if err != nil {
		return "", fmt.Errorf("reading container id: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// probe polls ProbeURL until it answers 200, within the same bounded
// fixed-delay budget as the CID wait. Unlike the CID wait, exhaustion
// fails the run.
func (d *Driver) probe(ctx context.Context) error {
	if d.opts.ProbeURL == "" {
		return nil
	}
	d.log.Info("probing endpoint", "url", d.opts.ProbeURL)

	ok := utils.Poll(ctx, d.opts.Attempts, d.opts.Delay, func() bool {
		resp, err := http.Get(d.opts.ProbeURL)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	})
	if !ok {
		return fmt.Errorf("%s did not answer 200 within %d attempts", d.opts.ProbeURL, d.opts.Attempts)
	}
	return nil
}

// cleanup tears down containers, the built image and the staging
// directory. It runs on success and failure alike and never masks the
// run's error; teardown problems are only logged.
func (d *Driver) cleanup() {
	if d.opts.Keep {
		d.log.Info("keeping test artifacts", "workdir", d.workDir)
		return
	}
	ctx := context.Background()

	for _, cont := range d.containers {
		if err := cont.StopAndRemove(ctx); err != nil {
			d.log.Warn("removing container failed", "id", cont.ID, "error", err)
		}
	}
	if exists, err := d.docker.ImageExists(ctx, d.opts.Tag); err == nil && exists {
		if err := d.docker.RemoveImage(ctx, d.opts.Tag); err != nil {
			d.log.Warn("removing image failed", "image", d.opts.Tag, "error", err)
		}
	}
	if d.workDir != "" {
		if err := os.RemoveAll(d.workDir); err != nil {
			d.log.Warn("removing staging directory failed", "path", d.workDir, "error", err)
		}
	}
}

func s2iBuildArgs(appDir, image, tag string, incremental bool) []string {
	args := []string{"build", appDir, image, tag}
	if incremental {
		args = append(args, "--incremental")
	}
	return args
}

func dockerRunArgs(cidFile, tag string) []string {
	return []string{
		"run", "-d",
		"--cidfile", cidFile,
		"-e", "PLAYBOOK_FILE=test-playbook.yaml",
		"-e", "INVENTORY_FILE=inventory",
		"-e", "OPTS=-vvv -u 1001 --connection local",
		tag,
	}
}
