package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newBucketsCmd(a *app) *cobra.Command {
	bucketsCmd := &cobra.Command{
		Use:   "buckets",
		Short: "Manage storage buckets",
		Long:  "List and create buckets on the storage server.",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all buckets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			buckets, err := a.client.ListBuckets(commandContext(cmd))
			if err != nil {
				return fmt.Errorf("error listing buckets: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(buckets) == 0 {
				fmt.Fprintln(out, "No buckets found.")
				return nil
			}

			fmt.Fprintf(out, "Buckets on %s:\n", a.client.BaseURL)
			for _, bucket := range buckets {
				fmt.Fprintf(out, "  - %s\n", bucket.Name)
			}
			return nil
		},
	}

	createCmd := &cobra.Command{
		Use:   "create [bucketName]",
		Short: "Create a new bucket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bucket, err := a.client.CreateBucket(commandContext(cmd), args[0])
			if err != nil {
				return fmt.Errorf("error creating bucket: %w", err)
			}

			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Bucket '%s' created successfully\n", bucket.Name)
			return nil
		},
	}

	bucketsCmd.AddCommand(listCmd, createCmd)
	return bucketsCmd
}
