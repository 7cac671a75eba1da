package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/HTYISABUG/tgbot-github-trending/src/ghapi"
	"github.com/HTYISABUG/tgbot-github-trending/src/server"
	"github.com/HTYISABUG/tgbot-github-trending/src/tgbot"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		glog.Errorln(err)
		glog.Flush()
		os.Exit(1)
	}

	glog.Flush()
}

func newRootCommand() *cobra.Command {
	var configPath, offsetFile string

	cmd := &cobra.Command{
		Use:           "tgbot-github-trending",
		Short:         "Telegram bot replying with trending GitHub repositories",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			// glog reads its settings from the Go flag set, already filled in by pflag.
			_ = flag.CommandLine.Parse(nil)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), configPath, offsetFile)
		},
	}

	bindFlags(cmd.Flags(), &configPath, &offsetFile)

	return cmd
}

func bindFlags(fs *pflag.FlagSet, configPath, offsetFile *string) {
	fs.StringVar(configPath, "config", "", "YAML settings file")
	fs.StringVar(offsetFile, "offset-file", "", "file keeping the next update id (overrides offset_file)")

	// -v, --logtostderr and the other glog flags.
	fs.AddGoFlagSet(flag.CommandLine)
}

func run(ctx context.Context, configPath, offsetFile string) error {
	creds, err := server.LoadCredentials(server.Environ())
	if err != nil {
		return err
	}

	setting, err := loadSetting(configPath, offsetFile)
	if err != nil {
		return err
	}

	store, err := server.NewOffsetStore(setting)
	if err != nil {
		return err
	}

	if c, ok := store.(io.Closer); ok {
		defer c.Close()
	}

	tg := tgbot.NewTgBot(
		creds.MessagingToken,
		setting.RequestTimeout,
		time.Duration(setting.PollTimeout)*time.Second,
	)

	if name, err := tg.Verify(); err != nil {
		glog.Warning(err)
	} else {
		glog.Infoln("Authorized on account", name)
	}

	gh := ghapi.NewGhAPI(creds.SearchToken, setting.RequestTimeout, setting.CacheTTL)

	return server.NewServer(tg, gh, store, setting).Run(ctx)
}

// loadSetting reads the settings file and applies --offset-file, which always
// selects the file driver.
func loadSetting(configPath, offsetFile string) (server.Setting, error) {
	setting, err := server.LoadSetting(configPath)
	if err != nil {
		return setting, err
	}

	if offsetFile != "" {
		setting.OffsetDriver = server.DriverFile
		setting.OffsetFile = offsetFile
	}

	return setting, nil
}
