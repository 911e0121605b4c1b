package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/fjglira/storycases/internal/client"
	"github.com/fjglira/storycases/internal/config"
	"github.com/fjglira/storycases/internal/domain"
	"github.com/fjglira/storycases/internal/grouping"
	"github.com/fjglira/storycases/internal/render"
)

var (
	projectID  string
	searchTerm  string
)

var storiesCmd = &cobra.Command{
	Use:   "stories",
	Short: "List the user stories of the JIRA project",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		stories, err := fetchStories(cmd.Context(), cfg, newBackend(cfg))
		if err != nil {
			return err
		}

		matched := grouping.FilterStories(stories, searchTerm)
		out := cmd.OutOrStdout()
		if len(matched) == 0 {
			fmt.Fprintln(out, color.YellowString("No stories found"))
			return nil
		}
		if err := render.RenderStories(out, matched); err != nil {
			return err
		}
		fmt.Fprintln(out, color.CyanString("%d of %d stories", len(matched), len(stories)))
		return nil
	},
}

func init() {
	storiesCmd.Flags().StringVarP(&searchTerm, "search", "s", "", "only show stories whose id, title or tags contain this term")
	for _, cmd := range []*cobra.Command{storiesCmd, generateCmd} {
		cmd.Flags().StringVarP(&projectID, "project", "p", "", "JIRA project id (overrides jira.project_id)")
	}
	rootCmd.AddCommand(storiesCmd)
}

// fetchStories checks the credentials and lists the stories of the configured project.
func fetchStories(ctx context.Context, cfg *config.Config, backend client.Backend) ([]domain.Story, error) {
	if err := config.ValidateCredentials(cfg); err != nil {
		return nil, err
	}
	project := cfg.Jira.ProjectID
	if projectID != "" {
		project = projectID
	}
	if project == "" {
		return nil, domain.NewErrorWithSuggestion("fetch", "", 0, "no JIRA project id given",
			"set jira.project_id, "+config.EnvProjectID+" or --project", nil)
	}

	log.Debugf("Fetching stories for project %s", project)
	stories, err := backend.FetchStories(ctx, cfg.Credentials(), project)
	if err != nil {
		return nil, err
	}
	log.Infof("Fetched %d story(ies)", len(stories))
	return stories, nil
}
