// Package main provides the giftshop CLI. It runs a function once against
// the configured database and object store, without the Lambda runtime.
//
//	giftshop invoke cards --event event.json
//	giftshop upload photo.jpg
package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fleveque/giftshop-functions/internal/app"
	"github.com/fleveque/giftshop-functions/internal/httpevent"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "giftshop",
		Short:        "Gift shop functions CLI",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
		},
	}

	root.AddCommand(invokeCmd(), uploadCmd())
	return root
}

func invokeCmd() *cobra.Command {
	var eventPath string

	cmd := &cobra.Command{
		Use:       "invoke <cards|gallery|upload-photo>",
		Short:     "Invoke a function with a JSON event",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"cards", "gallery", "upload-photo"},
		RunE: func(cmd *cobra.Command, args []string) error {
			event := []byte(`{"httpMethod":"GET"}`)
			if eventPath != "" {
				data, err := os.ReadFile(eventPath)
				if err != nil {
					return fmt.Errorf("reading event: %w", err)
				}
				event = data
			}
			return withFunctions(func(ctx context.Context, fns *app.Functions) error {
				h, err := pick(fns, args[0])
				if err != nil {
					return err
				}
				return invoke(ctx, cmd.OutOrStdout(), h, event)
			})
		},
	}

	cmd.Flags().StringVar(&eventPath, "event", "", "Path to a JSON event (defaults to a bare GET)")
	return cmd
}

func uploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <image>",
		Short: "Upload an image file to the gallery",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			image, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading image: %w", err)
			}
			event, err := uploadEvent(image)
			if err != nil {
				return err
			}
			return withFunctions(func(ctx context.Context, fns *app.Functions) error {
				return invoke(ctx, cmd.OutOrStdout(), fns.Upload.Handle, event)
			})
		},
	}
}

// withFunctions loads config, builds the handlers and runs fn with a
// context cancelled on SIGINT or SIGTERM.
func withFunctions(fn func(ctx context.Context, fns *app.Functions) error) error {
	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}

	// Always use development mode for CLI
	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fns, err := app.Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	return fn(ctx, fns)
}

func pick(fns *app.Functions, name string) (httpevent.Handler, error) {
	switch name {
	case "cards":
		return fns.Cards.Handle, nil
	case "gallery":
		return fns.Gallery.Handle, nil
	case "upload-photo":
		return fns.Upload.Handle, nil
	default:
		return nil, fmt.Errorf("unknown function: %s", name)
	}
}

// uploadEvent wraps image in the JSON-base64 event the upload function takes.
func uploadEvent(image []byte) ([]byte, error) {
	body, err := json.Marshal(map[string]string{
		"image": base64.StdEncoding.EncodeToString(image),
	})
	if err != nil {
		return nil, fmt.Errorf("encoding request body: %w", err)
	}
	event, err := json.Marshal(httpevent.Request{
		HTTPMethod: http.MethodPost,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	})
	if err != nil {
		return nil, fmt.Errorf("encoding event: %w", err)
	}
	return event, nil
}

// invoke decodes event and runs h exactly as the Lambda runtime would, then
// prints the response as indented JSON.
func invoke(ctx context.Context, w io.Writer, h httpevent.Handler, event []byte) error {
	out, err := httpevent.NewLambdaHandler(h).Invoke(ctx, event)
	if err != nil {
		return fmt.Errorf("function failed: %w", err)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, bytes.TrimSpace(out), "", "  "); err != nil {
		return fmt.Errorf("formatting response: %w", err)
	}
	pretty.WriteByte('\n')
	_, err = pretty.WriteTo(w)
	return err
}
