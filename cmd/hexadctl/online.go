package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gamify-hexad/internal/affinity"
	"gamify-hexad/internal/config"
	"gamify-hexad/internal/db"
	"gamify-hexad/internal/domain"
	"gamify-hexad/internal/repository"
	"gamify-hexad/internal/service"
)

// connect abre el pool con la misma configuracion que el servicio.
func connect(ctx context.Context) (*config.Config, *pgxpool.Pool, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("db connect: %w", err)
	}
	if err := db.Ping(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("db ping: %w", err)
	}
	return cfg, pool, nil
}

func newSuggestCmd() *cobra.Command {
	var userID, courseID string
	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Recompute and persist the suggestion for one user",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			logger := zap.NewExample()
			defer logger.Sync()

			matrix, err := affinity.NewFileSource(cfg.AffinityMatrixPath).Load()
			if err != nil {
				return err
			}
			answers := repository.NewPgAnswerRepository(pool)
			svc := service.NewSuggestionService(
				service.NewScoringService(answers, logger),
				matrix,
				repository.NewPgProfileRepository(pool),
				repository.NewPgGameElementRepository(pool),
				repository.NewPgAttributionRepository(pool),
				nil,
				nil,
				logger,
			)
			result, err := svc.Suggest(ctx, userID, courseID)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id")
	cmd.Flags().StringVar(&courseID, "course", "", "course id")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newElementsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "elements",
		Short: "Manage gamified element instances",
	}

	var courseID, moduleID, elementType string
	add := &cobra.Command{
		Use:   "add",
		Short: "Register a game element instance for a course",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := domain.ParseElementType(elementType)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			_, pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			element := domain.GameElement{
				ID:        uuid.NewString(),
				CourseID:  courseID,
				Type:      t,
				CreatedAt: time.Now().UTC(),
			}
			if moduleID != "" {
				element.ModuleID = &moduleID
			}
			if err := repository.NewPgGameElementRepository(pool).Create(ctx, element); err != nil {
				return fmt.Errorf("create game element: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), element.ID)
			return nil
		},
	}
	add.Flags().StringVar(&courseID, "course", "", "course id")
	add.Flags().StringVar(&moduleID, "module", "", "optional module id")
	add.Flags().StringVar(&elementType, "type", "", "element type (avatar, badge, progress, ranking, score, timer)")
	_ = add.MarkFlagRequired("course")
	_ = add.MarkFlagRequired("type")
	cmd.AddCommand(add)
	return cmd
}

func newTokenCmd() *cobra.Command {
	var userID, courseID, role string
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token for local testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			token, err := service.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, ttl).IssueAccessToken(userID, courseID, role)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id")
	cmd.Flags().StringVar(&courseID, "course", "", "course id")
	cmd.Flags().StringVar(&role, "role", "student", "role claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 15*time.Minute, "token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
