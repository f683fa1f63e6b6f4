// ABOUTME: GitHub helper commands
// ABOUTME: github deploybutton maintains the deploy badge in README.md
package cli

import (
	"os"

	"github.com/harperreed/bigmeta/readme"
	"github.com/spf13/cobra"
)

func newGithubCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "github",
		Short: "Project README helpers",
	}
	cmd.AddCommand(newDeployButtonCmd(a))
	return cmd
}

func newDeployButtonCmd(a *app) *cobra.Command {
	var deployer, button, projectDir string

	cmd := &cobra.Command{
		Use:   "deploybutton",
		Short: "Add or refresh a deploy button in README.md",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}
			if deployer == "" {
				deployer = cfg.DeployerURL
			}
			if button == "" {
				button = cfg.ButtonURL
			}
			if projectDir == "" {
				if projectDir, err = os.Getwd(); err != nil {
					return err
				}
			}

			changed, err := readme.UpdateProject(projectDir, readme.Options{DeployerURL: deployer, ButtonURL: button})
			if err != nil {
				return err
			}

			p := newPrinter(cmd.OutOrStdout())
			if !changed {
				p.Note("README.md already has this deploy button")
				return nil
			}
			p.Success("Deploy button written to README.md")
			a.logger.Debug("deploy button", "deployer", deployer, "button", button, "dir", projectDir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&deployer, "deployer", "d", "", "Base url of the deployer (default from config)")
	cmd.Flags().StringVarP(&button, "button", "b", "", "Public url of the button image (default from config)")
	cmd.Flags().StringVar(&projectDir, "project", "", "Project directory holding package.json and README.md (default: working directory)")
	return cmd
}
