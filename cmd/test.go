package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/t0ffel/playbook2image/docker"
	"github.com/t0ffel/playbook2image/driver"
)

type testFlags struct {
	image    string
	tag      string
	attempts int
	delay    time.Duration
	probeURL string
	keep     bool
}

func createTestCommand() *cobra.Command {
	flags := testFlags{}

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Exercise a candidate image end to end",
		Long: "Runs the integration test sequence against a candidate image: two s2i\n" +
			"builds of the sample app, the usage display, a containerized playbook\n" +
			"run and an optional HTTP probe. Requires docker, s2i and git.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cli, err := docker.NewClient()
			if err != nil {
				return err
			}
			d := driver.New(cli, driver.Options{
				Image:    flags.image,
				Tag:      flags.tag,
				Attempts: flags.attempts,
				Delay:    flags.delay,
				ProbeURL: flags.probeURL,
				Keep:     flags.keep,
			})
			return d.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&flags.image, "image", "i", "playbook2image-candidate", "Candidate image to test.")
	cmd.Flags().StringVarP(&flags.tag, "tag", "t", "playbook2image-test", "Name for the image built from the sample app.")
	cmd.Flags().IntVar(&flags.attempts, "attempts", 10, "Attempt budget for every polling loop.")
	cmd.Flags().DurationVar(&flags.delay, "delay", time.Second, "Fixed delay between polling attempts.")
	cmd.Flags().StringVar(&flags.probeURL, "probe-url", "", "HTTP endpoint that must answer 200 before the run passes.")
	cmd.Flags().BoolVar(&flags.keep, "keep", false, "Skip teardown so test artifacts can be inspected.")

	return cmd
}
