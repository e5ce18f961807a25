package main

import (
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/bft-labs/egnyte/internal/watch"
	"github.com/bft-labs/egnyte/pkg/egnyte"
	logAdapter "github.com/bft-labs/egnyte/pkg/log"
)

func newMkdirCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mkdir <path>",
		Short: "Create a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.client.Files.CreateFolder(cmd.Context(), args[0]); err != nil {
				return err
			}
			a.log.Info().Str("path", args[0]).Msg("folder created")
			return nil
		},
	}
}

func newStatCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stat <path>",
		Short: "Show a file, or list a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := a.client.Files.ListFileOrFolder(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			defer tw.Flush()

			if !item.IsFolder {
				printItem(tw, *item)
				return nil
			}
			for _, f := range item.Folders {
				fmt.Fprintf(tw, "d\t-\t-\t%s/\n", f.Name)
			}
			for _, f := range item.Files {
				printItem(tw, f)
			}
			return nil
		},
	}
}

func printItem(w io.Writer, it egnyte.Item) {
	modified := "-"
	if t, err := it.ModTime(); err == nil && !t.IsZero() {
		modified = humanize.Time(t)
	}
	fmt.Fprintf(w, "-\t%s\t%s\t%s\n", humanize.Bytes(uint64(it.Size)), modified, it.Name)
}

func newRemoveCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <path>",
		Short: "Delete a file or folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.client.Files.DeleteFileOrFolder(cmd.Context(), args[0]); err != nil {
				return err
			}
			a.log.Info().Str("path", args[0]).Msg("deleted")
			return nil
		},
	}
}

func newCopyCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cp <path> <destination>",
		Short: "Copy a file or folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.client.Files.Copy(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			a.log.Info().Str("from", args[0]).Str("to", args[1]).Msg("copied")
			return nil
		},
	}
}

func newMoveCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mv <path> <destination>",
		Short: "Move a file or folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.client.Files.Move(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			a.log.Info().Str("from", args[0]).Str("to", args[1]).Msg("moved")
			return nil
		},
	}
}

func newGetCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <remote> [local]",
		Short: "Download a file; local defaults to the remote name, - writes to stdout",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			remote := args[0]
			local := path.Base(remote)
			if len(args) == 2 {
				local = args[1]
			}

			f, err := a.client.Files.DownloadFileAsStream(cmd.Context(), remote)
			if err != nil {
				return err
			}
			defer f.Data.Close()

			var out io.Writer = cmd.OutOrStdout()
			if local != "-" {
				file, err := os.Create(local)
				if err != nil {
					return fmt.Errorf("create %s: %w", local, err)
				}
				defer file.Close()
				out = file
			}

			h := sha512.New()
			n, err := io.Copy(io.MultiWriter(out, h), f.Data)
			if err != nil {
				return fmt.Errorf("download %s: %w", remote, err)
			}
			if f.Checksum != "" {
				if got := hex.EncodeToString(h.Sum(nil)); got != f.Checksum {
					return fmt.Errorf("checksum mismatch for %s: got %s, want %s", remote, got, f.Checksum)
				}
			}

			a.log.Info().Str("remote", remote).Str("local", local).Str("size", humanize.Bytes(uint64(n))).Msg("downloaded")
			return nil
		},
	}
}

func newPutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "put <local> <remote>",
		Short: "Upload a file, creating a new version if it exists",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			uploaded, err := a.client.Files.CreateOrUpdateFile(cmd.Context(), args[1], file)
			if err != nil {
				return err
			}
			a.log.Info().
				Str("local", args[0]).
				Str("remote", args[1]).
				Str("entry_id", uploaded.EntryID).
				Msg("uploaded")
			return nil
		},
	}
}

func newWatchCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <local-dir> <remote-folder>",
		Short: "Upload new and changed files from a local directory until interrupted",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			localDir, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			w, err := watch.New(watch.Config{
				LocalDir:  localDir,
				RemoteDir: args[1],
				Debounce:  a.cfg.WatchDebounce,
			}, a.client.Files, logAdapter.NewZerologAdapterWithLogger(a.log))
			if err != nil {
				return err
			}
			return w.Run(cmd.Context())
		},
	}
	cmd.Flags().DurationVar(&a.cfg.WatchDebounce, "debounce", a.cfg.WatchDebounce, "quiet period before a changed file is uploaded")
	return cmd
}
