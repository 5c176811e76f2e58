package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nctirs/nctirs-stack/cli/internal/config"
	"github.com/nctirs/nctirs-stack/cli/pkg/output"
)

var (
	profileOpenSearchURL string
	profileIndex         string
	profileUsername      string
	profilePassword      string
	profileInsecure      bool
	profileNATSURL       string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage connection profiles",
}

var profileSetCmd = &cobra.Command{
	Use:   "set <name>",
	Short: "Create or update a profile and make it current",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := config.DefaultProfile()
		if existing, ok := cfg.Profiles[args[0]]; ok {
			copied := *existing
			p = &copied
		}

		flags := cmd.Flags()
		if flags.Changed("opensearch-url") {
			p.OpenSearchURL = profileOpenSearchURL
		}
		if flags.Changed("index") {
			p.Index = profileIndex
		}
		if flags.Changed("username") {
			p.OpenSearchUsername = profileUsername
		}
		if flags.Changed("password") {
			p.OpenSearchPassword = profilePassword
		}
		if flags.Changed("insecure") {
			p.Insecure = profileInsecure
		}
		if flags.Changed("nats-url") {
			p.NATSURL = profileNATSURL
		}

		if err := cfg.SaveProfile(args[0], p); err != nil {
			return fmt.Errorf("save profile: %w", err)
		}
		output.Success("Profile '%s' saved and active", args[0])
		return nil
	},
}

var profileUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Switch the current profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, ok := cfg.Profiles[args[0]]; !ok {
			return fmt.Errorf("profile '%s' not found", args[0])
		}
		cfg.CurrentProfile = args[0]
		if err := cfg.Save(); err != nil {
			return err
		}
		output.Success("Switched to profile '%s'", args[0])
		return nil
	},
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := output.ParseFormat(outputFormat)
		if err != nil {
			return err
		}

		// Credentials are never printed.
		type row struct {
			Name          string `json:"name"`
			Current       bool   `json:"current"`
			OpenSearchURL string `json:"opensearchUrl"`
			Index         string `json:"index"`
			NATSURL       string `json:"natsUrl"`
		}
		rows := []row{}
		for _, name := range cfg.ProfileNames() {
			p, _ := cfg.GetProfile(name)
			rows = append(rows, row{name, name == cfg.CurrentProfile, p.OpenSearchURL, p.Index, p.NATSURL})
		}

		return output.Write(cmd.OutOrStdout(), format, rows, func() *output.Table {
			t := output.NewTable("", "NAME", "OPENSEARCH", "INDEX", "NATS")
			for _, r := range rows {
				marker := ""
				if r.Current {
					marker = "*"
				}
				t.AddRow(marker, r.Name, r.OpenSearchURL, r.Index, r.NATSURL)
			}
			return t
		})
	},
}

var profileRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Delete a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.RemoveProfile(args[0]); err != nil {
			return err
		}
		output.Success("Profile '%s' removed", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileSetCmd, profileUseCmd, profileListCmd, profileRemoveCmd)

	profileSetCmd.Flags().StringVar(&profileOpenSearchURL, "opensearch-url", "", "OpenSearch URL")
	profileSetCmd.Flags().StringVar(&profileIndex, "index", "", "alert index")
	profileSetCmd.Flags().StringVar(&profileUsername, "username", "", "OpenSearch username")
	profileSetCmd.Flags().StringVar(&profilePassword, "password", "", "OpenSearch password")
	profileSetCmd.Flags().BoolVar(&profileInsecure, "insecure", false, "skip TLS certificate verification")
	profileSetCmd.Flags().StringVar(&profileNATSURL, "nats-url", "", "NATS server URL")
}
