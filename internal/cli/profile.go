package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/leonwong282/mdimgup/internal/profile"
)

func (a *App) profileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage storage profiles",
	}
	cmd.AddCommand(
		a.profileAddCommand(),
		a.profileListCommand(),
		a.profileShowCommand(),
		a.profileRemoveCommand(),
		a.profileUseCommand(),
		a.profileDuplicateCommand(),
		a.profileCredentialsCommand(),
		a.profileExportCommand(),
		a.profileImportCommand(),
	)
	return cmd
}

func (a *App) profileAddCommand() *cobra.Command {
	var p profile.StorageProfile
	var provider string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a storage profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p.Provider = profile.Provider(provider)

			created, err := a.profiles.Create(ctx, &p)
			if err != nil {
				return err
			}

			if err := a.promptCredentials(ctx, created.ID); err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Created profile %s (%s)\n", created.Name, created.ID)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&p.Name, "name", "", "profile name (required)")
	f.StringVar(&p.Description, "description", "", "free-form description")
	f.StringVar(&provider, "provider", string(profile.ProviderS3Compatible),
		"storage provider: cloudflare-r2, aws-s3 or s3-compatible")
	f.StringVar(&p.Bucket, "bucket", "", "bucket name (required)")
	f.StringVar(&p.Endpoint, "endpoint", "", "storage endpoint URL (required for s3-compatible)")
	f.StringVar(&p.Region, "region", "", "region (required for aws-s3)")
	f.StringVar(&p.AccountID, "account-id", "", "account id (required for cloudflare-r2)")
	f.StringVar(&p.CDNDomain, "cdn-domain", "", "public base URL for uploaded objects (required)")
	f.StringVar(&p.PathPrefix, "path-prefix", "", "key prefix for uploaded objects")
	f.StringVar(&p.NamingPattern, "naming-pattern", "", "object naming pattern, e.g. {date}/{filename}-{hash:8}{ext}")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("bucket")
	cmd.MarkFlagRequired("cdn-domain")

	return cmd
}

func (a *App) profileListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List storage profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			list, err := a.profiles.List(ctx)
			if err != nil {
				return err
			}
			activeID, err := a.profiles.ActiveID(ctx, profile.ScopeGlobal, "")
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(a.out, 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, "  \tNAME\tPROVIDER\tBUCKET\tCDN")
			for _, p := range list {
				marker := " "
				if p.ID == activeID {
					marker = "*"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", marker, p.Name, p.Provider, p.Bucket, p.CDNDomain)
			}
			return w.Flush()
		},
	}
}

func (a *App) profileShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id|name>",
		Short: "Show a profile's settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.findProfile(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(a.out, 2, 4, 2, ' ', 0)
			fmt.Fprintf(w, "ID\t%s\n", p.ID)
			fmt.Fprintf(w, "Name\t%s\n", p.Name)
			if p.Description != "" {
				fmt.Fprintf(w, "Description\t%s\n", p.Description)
			}
			fmt.Fprintf(w, "Provider\t%s\n", p.Provider)
			fmt.Fprintf(w, "Bucket\t%s\n", p.Bucket)
			if p.Endpoint != "" {
				fmt.Fprintf(w, "Endpoint\t%s\n", p.Endpoint)
			}
			if p.Region != "" {
				fmt.Fprintf(w, "Region\t%s\n", p.Region)
			}
			if p.AccountID != "" {
				fmt.Fprintf(w, "Account ID\t%s\n", p.AccountID)
			}
			fmt.Fprintf(w, "CDN domain\t%s\n", p.CDNDomain)
			if p.PathPrefix != "" {
				fmt.Fprintf(w, "Path prefix\t%s\n", p.PathPrefix)
			}
			if p.NamingPattern != "" {
				fmt.Fprintf(w, "Naming pattern\t%s\n", p.NamingPattern)
			}
			if p.MaxWidth != nil {
				fmt.Fprintf(w, "Max width\t%d\n", *p.MaxWidth)
			}
			if p.ParallelUploads != nil {
				fmt.Fprintf(w, "Parallel uploads\t%d\n", *p.ParallelUploads)
			}
			if p.UseCache != nil {
				fmt.Fprintf(w, "Use cache\t%t\n", *p.UseCache)
			}
			if p.LastUsed != nil {
				fmt.Fprintf(w, "Last used\t%s\n", p.LastUsed.Format("2006-01-02 15:04:05"))
			}
			return w.Flush()
		},
	}
}

func (a *App) profileRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id|name>",
		Short: "Delete a profile and its stored credentials",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := a.findProfile(ctx, args[0])
			if err != nil {
				return err
			}
			if err := a.profiles.Delete(ctx, p.ID); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Deleted profile %s\n", p.Name)
			return nil
		},
	}
}

func (a *App) profileUseCommand() *cobra.Command {
	var workspace bool

	cmd := &cobra.Command{
		Use:   "use <id|name>",
		Short: "Select the active profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := a.findProfile(ctx, args[0])
			if err != nil {
				return err
			}

			scope, root := profile.ScopeGlobal, ""
			if workspace {
				scope = profile.ScopeWorkspace
				if root, err = os.Getwd(); err != nil {
					return err
				}
			}
			if err := a.profiles.SetActive(ctx, p.ID, scope, root); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Active profile (%s): %s\n", scope, p.Name)
			return nil
		},
	}

	cmd.Flags().BoolVar(&workspace, "workspace", false, "select for the current directory only")
	return cmd
}

func (a *App) profileDuplicateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "duplicate <id|name> <new-name>",
		Short: "Copy a profile's settings under a new name",
		Long:  "Copies every setting of an existing profile. Credentials are not copied; set them with 'profile credentials'.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := a.findProfile(ctx, args[0])
			if err != nil {
				return err
			}
			dup, err := a.profiles.Duplicate(ctx, p.ID, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Created profile %s (%s)\n", dup.Name, dup.ID)
			return nil
		},
	}
}

func (a *App) profileCredentialsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "credentials <id|name>",
		Short: "Set a profile's access credentials",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := a.findProfile(ctx, args[0])
			if err != nil {
				return err
			}
			return a.promptCredentials(ctx, p.ID)
		},
	}
}

func (a *App) profileExportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export [id|name...]",
		Short: "Export profiles to a JSON file (without credentials)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var ids []string
			for _, ref := range args {
				p, err := a.findProfile(ctx, ref)
				if err != nil {
					return err
				}
				ids = append(ids, p.ID)
			}

			data, err := a.profiles.Export(ctx, ids...)
			if err != nil {
				return err
			}
			if output == "" {
				_, err = a.out.Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o600); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(a.out, "Exported to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func (a *App) profileImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: "Import profiles from an export file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			imported, err := a.profiles.Import(cmd.Context(), data)
			if err != nil {
				return err
			}
			for _, p := range imported {
				fmt.Fprintf(a.out, "Imported %s (%s)\n", p.Name, p.ID)
			}
			fmt.Fprintln(a.out, "Imported profiles have no credentials; set them with 'profile credentials'.")
			return nil
		},
	}
}

func (a *App) promptCredentials(ctx context.Context, profileID string) error {
	accessKey, err := GetSimpleText(a.reader, "Access key ID", a.out)
	if err != nil {
		return err
	}
	secretKey, err := GetSecret("Secret access key", a.out)
	if err != nil {
		return err
	}
	return a.profiles.SetCredentials(ctx, profileID, profile.Credentials{
		AccessKey: accessKey,
		SecretKey: secretKey,
	})
}
