package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/germanamz/chatbench/pkg/session"
)

var (
	uploadOK  = color.New(color.FgGreen, color.Bold)
	uploadErr = color.New(color.FgRed, color.Bold)
	uploadDim = color.New(color.Faint)
)

// uploadMain backs the upload subcommand.
func uploadMain(ctx context.Context, configPath, dirPath, file string) error {
	cfg, _, err := loadClientConfig(configPath, dirPath)
	if err != nil {
		_, _ = uploadErr.Fprintf(os.Stderr, "error: %v\n", err)
		return err
	}

	client, err := newBackendClient(cfg)
	if err != nil {
		_, _ = uploadErr.Fprintf(os.Stderr, "error: %v\n", err)
		return err
	}

	sess, err := session.New(session.Options{Client: client, Parameters: cfg.Parameters})
	if err != nil {
		return err
	}

	return runUpload(ctx, os.Stdout, sess, file)
}

// runUpload submits file for fine-tuning and reports the outcome on w.
func runUpload(ctx context.Context, w io.Writer, sess *session.Session, file string) error {
	_, _ = uploadDim.Fprintf(w, "Uploading %s...\n", file)

	resp, err := sess.Upload(ctx, file)
	if err != nil {
		if errors.Is(err, session.ErrNoFile) {
			_, _ = uploadErr.Fprintln(w, "Please select a file first.")
		} else {
			_, _ = uploadErr.Fprintf(w, "Upload failed: %v\n", err)
		}
		return err
	}

	_, _ = uploadOK.Fprintln(w, "File uploaded successfully!")
	if resp.Message != "" {
		fmt.Fprintln(w, resp.Message)
	}

	return nil
}
