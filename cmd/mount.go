package main

import (
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/brettbedarf/memtree/internal/util"
	"github.com/brettbedarf/memtree/server"
)

func newMountCmd(opts *rootOptions) *cobra.Command {
	var umount bool

	cmd := &cobra.Command{
		Use:   "mount <mountpoint>",
		Short: "Build a tree and serve it read-only over FUSE",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			logger := util.GetLogger("mount")
			mnt := args[0]

			// Try unmount if requested
			if umount {
				cmd := exec.Command("fusermount", "-u", mnt)
				// we ignore error here if not already mounted
				cmd.Run() // nolint:errcheck
			}

			t, _, err := opts.buildTree()
			if err != nil {
				return err
			}

			srv := server.New(opts.cfg, t)
			if err := srv.Serve(mnt); err != nil {
				return fmt.Errorf("failed to mount filesystem: %w", err)
			}
			logger.Info().Str("mountpoint", mnt).Msg("Filesystem mounted successfully")

			// Setup signal handling for graceful shutdown
			signalChan := make(chan os.Signal, 1)
			signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

			go func() {
				sig := <-signalChan
				logger.Info().Str("signal", sig.String()).Msg("Received signal, unmounting filesystem")
				if err := srv.Unmount(); err != nil {
					logger.Error().Err(err).Msg("Failed to unmount filesystem")
				}
			}()

			srv.Wait()
			logger.Info().Msg("Filesystem unmounted")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&umount, "umount", "u", false,
		"Unmount the fs first if needed before mounting again. Useful for debuggers that don't exit properly.")
	return cmd
}
