// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/aiact/internal/assess"
	"github.com/pdiddy/aiact/internal/profile"
	"github.com/pdiddy/aiact/pkg/types"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [repo-url]",
	Short: "Profile a repository and assess its EU AI Act risk level",
	Long: `Classify profiles the given GitHub repository into a metadata record,
renders the record into a classification document, submits it to the
assessment service, and prints the risk verdict with the evidence passages
each citation marker resolves to.

Credentials come from flags, AIACT_* environment variables, the config
file, or .secrets/ files (github-token, openai-api-key,
openai-assistant-id), in that order.`,
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

// classifyReport is the combined output of a classify run.
type classifyReport struct {
	Repository types.MetadataRecord   `json:"repository" yaml:"repository"`
	Assessment types.AssessmentResult `json:"assessment" yaml:"assessment"`
}

func runClassify(cmd *cobra.Command, args []string) error {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	profiler := profile.New(profileConfigFromFlags(cmd))
	rec, err := profiler.Profile(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Profiled %s/%s (domain: %s)\n", rec.Owner, rec.Name, rec.Domain())

	assessCfg, err := assessConfigFromFlags(cmd)
	if err != nil {
		return err
	}
	pipeline := assess.New(assessCfg)
	result, err := pipeline.Assess(ctx, rec)
	if err != nil {
		return err
	}

	report := classifyReport{Repository: rec, Assessment: result}
	switch {
	case flagBool(cmd, "json"):
		return writeJSON(report)
	case flagBool(cmd, "yaml"):
		return writeYAML(report)
	default:
		printReport(report)
		return nil
	}
}

func printReport(report classifyReport) {
	fmt.Println(report.Assessment.VerdictText)

	if len(report.Assessment.Citations) == 0 {
		return
	}
	fmt.Println("\nCited evidence:")
	for i, c := range report.Assessment.Citations {
		fmt.Printf("%d. %s (score %.2f)\n   %s\n", i+1, c.Marker, c.RelevanceScore, c.EvidenceText)
	}
}

// --- shared helpers ---

func profileConfigFromFlags(cmd *cobra.Command) types.ProfileConfig {
	token, _ := cmd.Flags().GetString("github-token")
	if token == "" {
		token = viper.GetString("github.token")
	}
	manifest, _ := cmd.Flags().GetString("manifest")
	excerptChars, _ := cmd.Flags().GetInt("excerpt-chars")

	return types.ProfileConfig{
		Token:              secretDefault("github-token", token),
		ReadmeExcerptChars: excerptChars,
		ManifestPath:       manifest,
	}
}

func assessConfigFromFlags(cmd *cobra.Command) (types.AssessConfig, error) {
	apiKey, _ := cmd.Flags().GetString("api-key")
	if apiKey == "" {
		apiKey = viper.GetString("openai.api_key")
	}
	apiKey = secretDefault("openai-api-key", apiKey)
	if apiKey == "" {
		return types.AssessConfig{}, fmt.Errorf("API key required: use --api-key or .secrets/openai-api-key")
	}

	assistantID, _ := cmd.Flags().GetString("assistant")
	if assistantID == "" {
		assistantID = viper.GetString("openai.assistant_id")
	}
	assistantID = secretDefault("openai-assistant-id", assistantID)
	if assistantID == "" {
		return types.AssessConfig{}, fmt.Errorf("assistant ID required: use --assistant or .secrets/openai-assistant-id")
	}

	instruction, _ := cmd.Flags().GetString("instruction")
	pollInterval, _ := cmd.Flags().GetDuration("poll-interval")
	maxPolls, _ := cmd.Flags().GetInt("max-polls")

	return types.AssessConfig{
		APIKey:       apiKey,
		AssistantID:  assistantID,
		Instruction:  instruction,
		PollInterval: pollInterval,
		MaxPolls:     maxPolls,
	}, nil
}

func flagBool(cmd *cobra.Command, name string) bool {
	v, _ := cmd.Flags().GetBool(name)
	return v
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(v any) error {
	enc := yaml.NewEncoder(os.Stdout)
	defer enc.Close()
	return enc.Encode(v)
}

func init() {
	classifyCmd.Flags().String("github-token", "", "GitHub API token (anonymous access when empty)")
	classifyCmd.Flags().String("api-key", "", "assessment service API key")
	classifyCmd.Flags().String("assistant", "", "assistant identity to run the classification against")
	classifyCmd.Flags().String("instruction", "", "override the classification instruction")
	classifyCmd.Flags().String("manifest", "requirements.txt", "dependency manifest path within the repository")
	classifyCmd.Flags().Int("excerpt-chars", 500, "README excerpt length in characters")
	classifyCmd.Flags().Duration("poll-interval", 2*time.Second, "delay between run status checks")
	classifyCmd.Flags().Int("max-polls", 60, "maximum run status checks before giving up")
	classifyCmd.Flags().Duration("timeout", 5*time.Minute, "overall deadline for the classify run")
	classifyCmd.Flags().Bool("json", false, "output the report as JSON")
	classifyCmd.Flags().Bool("yaml", false, "output the report as YAML")

	rootCmd.AddCommand(classifyCmd)
}
