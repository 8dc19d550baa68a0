package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"bkt/internal/filelist"
	"bkt/internal/logging"
	"bkt/internal/models"
	"bkt/internal/util"

	"github.com/fatih/color"
	"github.com/ryanuber/go-glob"
	"github.com/spf13/cobra"
)

func newFilesCmd(a *app) *cobra.Command {
	filesCmd := &cobra.Command{
		Use:   "files",
		Short: "Manage the files of a bucket",
		Long:  "List, upload, download and delete files in a bucket.",
	}

	filesCmd.AddCommand(
		newFilesListCmd(a),
		newFilesUploadCmd(a),
		newFilesDeleteCmd(a),
		newFilesDownloadCmd(a),
	)
	return filesCmd
}

// newStore returns a file list store for bucket backed by the app's client
func (a *app) newStore(bucket string) *filelist.Store {
	return filelist.New(a.client, bucket, filelist.WithLogger(logging.Log))
}

// storeError reports the store's user-facing message, keeping the cause for --log-level debug
func storeError(store *filelist.Store, err error) error {
	if msg := store.Snapshot().Message; msg != "" {
		logging.Log.WithError(err).Debug(msg)
		return errors.New(msg)
	}
	return err
}

func newFilesListCmd(a *app) *cobra.Command {
	var (
		search string
		tags   []string
		match  string
	)

	listCmd := &cobra.Command{
		Use:   "list [bucket]",
		Short: "List the files of a bucket",
		Long: `List the files of a bucket.

--search keeps names containing the text (case-insensitive), --tag keeps files
carrying any of the given tags and --match keeps names matching a glob
such as '*.png'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := a.newStore(args[0])
			if err := store.Load(commandContext(cmd)); err != nil {
				return storeError(store, err)
			}

			files := filelist.Filter(store.Snapshot().Files, search, util.SplitTags(strings.Join(tags, ",")))
			if match != "" {
				matched := files[:0]
				for _, f := range files {
					if glob.Glob(match, f.Name) {
						matched = append(matched, f)
					}
				}
				files = matched
			}

			out := cmd.OutOrStdout()
			if len(files) == 0 {
				fmt.Fprintln(out, "No files found.")
				return nil
			}

			for _, f := range files {
				name := f.Name
				if f.IsImage() {
					name = color.CyanString(name)
				}
				line := fmt.Sprintf("  %s  %s", name, util.FormatKB(f.Size))
				if len(f.Tags) > 0 {
					line += "  " + util.FormatTags(f.Tags)
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	listCmd.Flags().StringVarP(&search, "search", "s", "", "Only show files whose name contains this text")
	listCmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "Only show files with any of these tags (repeatable)")
	listCmd.Flags().StringVar(&match, "match", "", "Only show files whose name matches this glob")
	return listCmd
}

func newFilesUploadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "upload [bucket] [path]",
		Short: "Upload a local file to a bucket",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bucket, path := args[0], args[1]

			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("error opening file: %w", err)
			}
			defer f.Close()

			store := a.newStore(bucket)
			name := filepath.Base(path)
			if err := store.Upload(commandContext(cmd), name, f); err != nil {
				return storeError(store, err)
			}

			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Uploaded %s to %s (%d files)\n",
				name, bucket, len(store.Snapshot().Files))
			return nil
		},
	}
}

// promptConfirm asks a y/N question on out and reads the answer from in
func promptConfirm(in io.Reader, out io.Writer, subject string) filelist.ConfirmFunc {
	return func(prompt string) bool {
		fmt.Fprintf(out, "%s (%s) [y/N]: ", prompt, subject)
		answer, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && answer == "" {
			return false
		}
		answer = strings.ToLower(strings.TrimSpace(answer))
		return answer == "y" || answer == "yes"
	}
}

func newFilesDeleteCmd(a *app) *cobra.Command {
	var force bool

	deleteCmd := &cobra.Command{
		Use:   "delete [bucket] [name]",
		Short: "Delete a file from a bucket",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bucket, name := args[0], args[1]

			confirm := promptConfirm(cmd.InOrStdin(), cmd.OutOrStdout(), name)
			if force {
				confirm = func(string) bool { return true }
			}

			store := a.newStore(bucket)
			err := store.Delete(commandContext(cmd), name, confirm)
			if errors.Is(err, models.ErrDeleteNotConfirmed) {
				fmt.Fprintln(cmd.OutOrStdout(), "Delete cancelled.")
				return nil
			}
			if err != nil {
				return storeError(store, err)
			}

			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Deleted %s from %s\n", name, bucket)
			return nil
		},
	}

	deleteCmd.Flags().BoolVarP(&force, "force", "f", false, "Delete without asking for confirmation")
	return deleteCmd
}

func newFilesDownloadCmd(a *app) *cobra.Command {
	var outDir string

	downloadCmd := &cobra.Command{
		Use:   "download [bucket] [name]",
		Short: "Download a file from a bucket",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bucket, name := args[0], args[1]

			dir := outDir
			if dir == "" {
				dir = a.cfg.ResolvedDownloadDir()
			}

			store := a.newStore(bucket)
			path, err := store.Download(commandContext(cmd), name, filelist.DirSaver{Dir: dir})
			if err != nil {
				return storeError(store, err)
			}

			size := ""
			if info, err := os.Stat(path); err == nil {
				size = fmt.Sprintf(" (%s)", util.FormatSize(info.Size()))
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Saved %s%s\n", path, size)
			return nil
		},
	}

	downloadCmd.Flags().StringVarP(&outDir, "output", "o", "", "Directory to save into (default: download_dir or the working directory)")
	return downloadCmd
}
