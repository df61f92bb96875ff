package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/theleywin/talentnest/src/app"
	"github.com/theleywin/talentnest/src/config"
	"github.com/theleywin/talentnest/src/lib"
	"github.com/theleywin/talentnest/src/mail"
	"github.com/theleywin/talentnest/src/media"
	"github.com/theleywin/talentnest/src/services"
)

func serveCommand() *cobra.Command {
	var port string

	command := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, st, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer st.Close(context.Background())

			if port != "" {
				cfg.Port = port
			}

			if err := st.Migrate(ctx); err != nil {
				return err
			}

			tokens := lib.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
			svc := services.New(st, newMailer(cfg), newAssetStore(cfg), tokens, cfg)
			server := app.New(svc, cfg)

			errc := make(chan error, 1)
			go func() {
				logrus.WithField("port", cfg.Port).Info("Server is running")
				errc <- server.Listen(":" + cfg.Port)
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

			select {
			case err := <-errc:
				return err
			case sig := <-quit:
				logrus.WithField("signal", sig.String()).Info("shutting down")
				return server.ShutdownWithTimeout(10 * time.Second)
			}
		},
	}

	command.Flags().StringVarP(&port, "port", "p", "", "port to listen on (overrides PORT)")

	return command
}

func newMailer(cfg *config.Config) mail.Mailer {
	if cfg.MailtrapToken == "" {
		logrus.Warn("MAILTRAP_TOKEN is not set, emails will only be logged")
		return mail.LogMailer{}
	}
	return mail.NewMailtrapClient(cfg.MailtrapEndpoint, cfg.MailtrapToken, cfg.MailFromEmail, cfg.MailFromName, cfg.EmailTimeout)
}

func newAssetStore(cfg *config.Config) media.AssetStore {
	if cfg.CloudinaryURL == "" {
		logrus.Warn("CLOUDINARY_URL is not set, image uploads are disabled")
		return media.DisabledStore{}
	}

	assets, err := media.NewCloudinaryStore(cfg.CloudinaryURL, cfg.CloudinaryFolder)
	if err != nil {
		logrus.WithError(err).Error("invalid CLOUDINARY_URL, image uploads are disabled")
		return media.DisabledStore{}
	}
	return assets
}
