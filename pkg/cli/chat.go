package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/bizmate-ai/bizmate/pkg/cli/config"
	"github.com/bizmate-ai/bizmate/pkg/domain/types"
	"github.com/bizmate-ai/bizmate/pkg/usecase"
	"github.com/bizmate-ai/bizmate/pkg/utils/logging"
)

func cmdChat() *cli.Command {
	var userID string
	var threadID string
	var businessID string
	var intentType string
	var appCfg config.AppConfig
	var repoCfg config.Repository
	var geminiCfg config.Gemini
	var searchCfg config.Search

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "user-id",
			Usage:       "User ID for the turn",
			Required:    true,
			Sources:     cli.EnvVars("BIZMATE_USER_ID"),
			Destination: &userID,
		},
		&cli.StringFlag{
			Name:        "thread-id",
			Usage:       "Existing thread ID to continue (omit to start a new thread)",
			Destination: &threadID,
		},
		&cli.StringFlag{
			Name:        "business-id",
			Usage:       "Business ID (omit to resolve from the user)",
			Destination: &businessID,
		},
		&cli.StringFlag{
			Name:        "type",
			Usage:       "Explicit intent type (affordability, scheduling, cashflow, pricing, general)",
			Destination: &intentType,
		},
	}

	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, searchCfg.Flags()...)

	return &cli.Command{
		Name:      "chat",
		Usage:     "Run a single conversational turn from the command line",
		ArgsUsage: "<message>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			message := strings.Join(c.Args().Slice(), " ")
			if strings.TrimSpace(message) == "" {
				return goerr.New("message argument is required")
			}

			if err := appCfg.Configure(); err != nil {
				return goerr.Wrap(err, "failed to load application config")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			ucOpts := appCfg.UseCaseOptions()

			llmClient, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure Gemini client")
			}
			if llmClient != nil {
				ucOpts = append(ucOpts,
					usecase.WithGenerator(llmClient),
					usecase.WithEmbedder(llmClient),
				)
			}
			if searcher := searchCfg.Configure(); searcher != nil {
				ucOpts = append(ucOpts, usecase.WithWebSearcher(searcher))
			}

			uc := usecase.New(repo, ucOpts...)

			output := uc.Chat(ctx, &usecase.ChatInput{
				UserID:     types.UserID(userID),
				Message:    message,
				Intent:     types.Intent(intentType),
				ThreadID:   types.ThreadID(threadID),
				BusinessID: types.BusinessID(businessID),
			})

			printTurn(output)
			return nil
		},
	}
}

func printTurn(output *usecase.ChatOutput) {
	bold := color.New(color.Bold)
	dim := color.New(color.Faint)
	cyan := color.New(color.FgCyan)

	bold.Println("BizMate:")
	fmt.Println(output.ResponseText)
	fmt.Println()

	if len(output.SuggestedActions) > 0 {
		cyan.Println("Suggested moves:")
		for _, action := range output.SuggestedActions {
			fmt.Printf("  - %s\n", action)
		}
		fmt.Println()
	}

	if output.FollowUpPrompt != "" {
		cyan.Printf("Follow up: %s\n", output.FollowUpPrompt)
		fmt.Println()
	}

	dim.Printf("intent=%s thread=%s elapsed=%dms", output.Meta.Intent, output.Meta.ThreadID, output.Meta.Elapsed.Milliseconds())
	if output.Meta.Model != "" {
		dim.Printf(" model=%s", output.Meta.Model)
	}
	if output.Meta.Stub {
		dim.Printf(" (fallback reply)")
	}
	if output.Meta.Web.Used {
		dim.Printf(" web=used")
	}
	dim.Println()
}
