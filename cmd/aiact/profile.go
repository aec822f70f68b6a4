// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/aiact/internal/profile"
	"github.com/pdiddy/aiact/pkg/types"
)

var profileCmd = &cobra.Command{
	Use:   "profile [repo-url]",
	Short: "Profile a GitHub repository into a metadata record",
	Long: `Profile fetches a repository's README, dependency manifest, languages,
topics, license, and activity counters from the GitHub API, applies the
domain heuristics, and prints the resulting metadata record without
submitting it for assessment.`,
	Args: cobra.ExactArgs(1),
	RunE: runProfile,
}

func runProfile(cmd *cobra.Command, args []string) error {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	profiler := profile.New(profileConfigFromFlags(cmd))
	rec, err := profiler.Profile(ctx, args[0])
	if err != nil {
		return err
	}

	switch {
	case flagBool(cmd, "json"):
		return writeJSON(rec)
	case flagBool(cmd, "yaml"):
		return writeYAML(rec)
	default:
		printRecord(rec)
		return nil
	}
}

func printRecord(rec types.MetadataRecord) {
	fmt.Printf("Repository:   %s/%s\n", rec.Owner, rec.Name)
	fmt.Printf("Domain:       %s\n", rec.Domain())
	fmt.Printf("Tags:         %s\n", orDash(strings.Join(rec.DomainTags, ", ")))
	fmt.Printf("License:      %s\n", rec.License)
	fmt.Printf("Languages:    %s\n", orDash(languageNames(rec.LanguageHistogram)))
	fmt.Printf("Topics:       %s\n", orDash(strings.Join(rec.Topics, ", ")))
	fmt.Printf("Dependencies: %s\n", orDash(strings.Join(rec.Dependencies, ", ")))
	fmt.Printf("Activity:     %d stars, %d forks, %d open issues, %d contributors\n",
		rec.Activity.Stars, rec.Activity.Forks, rec.Activity.OpenIssues, rec.Activity.Contributors)
	fmt.Printf("Size:         %d KB\n", rec.SizeKB)
	if rec.LastPush != "" {
		fmt.Printf("Last push:    %s\n", rec.LastPush)
	}
	fmt.Printf("CI:           %t\n", rec.HasCI)
	fmt.Printf("Biometric:    %t\n", rec.BiometricFlag)
	fmt.Printf("Oversight:    %t\n", rec.HumanOversightFlag)
	if rec.ReadmeExcerpt != "" {
		fmt.Printf("\n%s\n", rec.ReadmeExcerpt)
	}
}

func languageNames(histogram map[string]int) string {
	names := make([]string, 0, len(histogram))
	for name := range histogram {
		names = append(names, name)
	}
	// Histogram iteration order is random; keep the listing stable.
	sort.Slice(names, func(i, j int) bool {
		if histogram[names[i]] != histogram[names[j]] {
			return histogram[names[i]] > histogram[names[j]]
		}
		return names[i] < names[j]
	})
	return strings.Join(names, ", ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	profileCmd.Flags().String("github-token", "", "GitHub API token (anonymous access when empty)")
	profileCmd.Flags().String("manifest", "requirements.txt", "dependency manifest path within the repository")
	profileCmd.Flags().Int("excerpt-chars", 500, "README excerpt length in characters")
	profileCmd.Flags().Duration("timeout", time.Minute, "overall deadline for the profile run")
	profileCmd.Flags().Bool("json", false, "output the record as JSON")
	profileCmd.Flags().Bool("yaml", false, "output the record as YAML")

	rootCmd.AddCommand(profileCmd)
}
