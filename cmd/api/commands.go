package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/bizmatters/agent-builder/spec-elicitor/internal/auth"
	"github.com/bizmatters/agent-builder/spec-elicitor/internal/models"
)

func newTurnCmd(e *env) *cobra.Command {
	var start models.StartRequest

	cmd := &cobra.Command{
		Use:   "turn",
		Short: "Run one dialogue turn and print the response as JSON",
		Long: `Run one dialogue turn without the HTTP server.

With --idea a new dialogue is started and its first question printed.
Otherwise an answer request is read from stdin as JSON:

  {"spec_id": "...", "current_question": "...", "answer": "...",
   "previous_answers": {...}, "initial_idea": "...", "title": "..."}`,
		Example: `  spec-elicitor turn --idea "Implementar PIX agendado para clientes PJ"
  spec-elicitor turn < answer.json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, logger, err := e.load()
			if err != nil {
				return err
			}
			defer logger.Sync()

			service, store, err := newService(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			var body interface{}
			if start.Idea != "" {
				resp, err := service.StartSpecification(ctx, start)
				if err != nil {
					return err
				}
				body = resp
			} else {
				req, err := readAnswerRequest(cmd.InOrStdin())
				if err != nil {
					return err
				}
				result, err := service.ProcessAnswer(ctx, req, "")
				if err != nil {
					return err
				}
				body = result.Body()
			}
			return writeJSON(cmd.OutOrStdout(), body)
		},
	}

	cmd.Flags().StringVar(&start.Idea, "idea", "", "start a new dialogue for this idea")
	cmd.Flags().StringVar(&start.Title, "title", "", "title of the new dialogue")
	cmd.Flags().StringVar(&start.CreatedBy, "created-by", "", "author of the new dialogue")
	return cmd
}

func readAnswerRequest(r io.Reader) (models.AnswerRequest, error) {
	var req models.AnswerRequest
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return req, errors.New("expected an answer request on stdin (or use --idea to start)")
		}
		return req, fmt.Errorf("failed to decode answer request: %w", err)
	}
	return req, nil
}

func newTokenCmd(e *env) *cobra.Command {
	var (
		userID   string
		email    string
		duration time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API token signed with JWT_SECRET",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := e.load()
			if err != nil {
				return err
			}
			defer logger.Sync()

			if !cfg.AuthEnabled() {
				return errors.New("JWT_SECRET is not set")
			}
			jm, err := auth.NewJWTManager(cfg.JWTSecret)
			if err != nil {
				return err
			}

			token, expiresAt, err := jm.GenerateToken(cmd.Context(), userID, email, duration)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), models.LoginResponse{
				Token:     token,
				ExpiresAt: expiresAt,
				UserID:    userID,
			})
		},
	}

	cmd.Flags().StringVar(&userID, "user-id", "", "user id to put in the token")
	cmd.Flags().StringVar(&email, "email", "", "email to put in the token")
	cmd.Flags().DurationVar(&duration, "duration", auth.DefaultTokenDuration, "token lifetime")
	_ = cmd.MarkFlagRequired("user-id")
	return cmd
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
