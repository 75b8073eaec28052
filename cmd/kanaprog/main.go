// Command kanaprog is the command-line front end of the kana learning
// progress engine. It wires configuration, logging, and the selected
// storage backend into the progress service, runs one subcommand, and
// flushes pending saves before exiting.
package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kanastudy/kanaprog/internal/config"
	"github.com/kanastudy/kanaprog/internal/domain"
	"github.com/kanastudy/kanaprog/internal/kana"
	"github.com/kanastudy/kanaprog/internal/platform/filekv"
	"github.com/kanastudy/kanaprog/internal/platform/logger"
	"github.com/kanastudy/kanaprog/internal/platform/sqlitekv"
	"github.com/kanastudy/kanaprog/internal/service/progress"
	"github.com/kanastudy/kanaprog/internal/store"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "kanaprog: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.Setup(cfg.Logging.Level)

	kv, closeKV, err := openBackend(cfg)
	if err != nil {
		return err
	}
	defer closeKV()

	svc, err := progress.New(store.NewRepository(kv, log),
		progress.WithLogger(log),
		progress.WithDailyGoal(cfg.Learning.DailyGoal),
		progress.WithRecommendationLimit(cfg.Learning.RecommendationLimit),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize progress service: %w", err)
	}
	defer svc.Flush()

	root := newRootCmd(svc)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		return err
	}

	svc.Flush()
	if err := svc.LastError(); err != nil {
		log.Warn("latest change may not be saved", "error", err)
	}
	return nil
}

// openBackend builds the key-value store named by the configuration.
// The returned closer is a no-op for backends without resources.
func openBackend(cfg *config.Config) (store.KV, func(), error) {
	switch cfg.Storage.Backend {
	case "file":
		kv, err := filekv.New(cfg.Storage.Path)
		if err != nil {
			return nil, nil, err
		}
		return kv, func() {}, nil
	case "sqlite":
		kv, err := sqlitekv.New(cfg.Storage.Path)
		if err != nil {
			return nil, nil, err
		}
		return kv, func() { _ = kv.Close() }, nil
	case "memory":
		return store.NewMemoryKV(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func newRootCmd(svc *progress.Service) *cobra.Command {
	root := &cobra.Command{
		Use:           "kanaprog",
		Short:         "Track kana learning progress with spaced repetition",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newExposeCmd(svc),
		newReviewCmd(svc),
		newSuspendCmd(svc),
		newResumeCmd(svc),
		newResetCmd(svc),
		newRecommendCmd(svc),
		newStatusCmd(svc),
		newStatsCmd(svc),
		newStreakCmd(svc),
		newSessionCmd(svc),
		newMilestonesCmd(svc),
		newCelebrateCmd(svc),
		newPrefsCmd(svc),
		newExportCmd(svc),
		newImportCmd(svc),
	)
	return root
}

func newExposeCmd(svc *progress.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "expose <kana>...",
		Short: "Record that kana were shown without being quizzed",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, key := range args {
				if err := svc.Apply(key, domain.Expose{}); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newReviewCmd(svc *progress.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "review <kana> <quality>",
		Short: "Record a graded review (quality 0-5) and reschedule the kana",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			quality, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("quality must be a number 0-5, got %q", args[1])
			}
			if err := svc.Apply(args[0], domain.Interact{Quality: quality}); err != nil {
				return err
			}
			item, _ := svc.Snapshot().Item(args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s, next review in %d day(s)\n",
				args[0], item.Status, item.Interval)
			return nil
		},
	}
}

func newSuspendCmd(svc *progress.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "suspend <kana>...",
		Short: "Exclude kana from recommendations",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, key := range args {
				if err := svc.Apply(key, domain.Suspend{}); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newResumeCmd(svc *progress.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "resume <kana>...",
		Short: "Bring suspended kana back into rotation",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, key := range args {
				if err := svc.Apply(key, domain.Resume{}); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newResetCmd(svc *progress.Service) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "reset [kana...]",
		Short: "Delete per-kana progress records",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && !all {
				return errors.New("pass kana keys, or --all to reset everything")
			}
			return svc.ResetProgress(args...)
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Reset every kana")
	return cmd
}

func newRecommendCmd(svc *progress.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "recommend [row...]",
		Short: "Show the kana most worth studying next",
		Long: `Ranks the kana of the given gojuon rows (default: all rows) by
study priority and prints the top of the list, most urgent first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := args
			if len(rows) == 0 {
				rows = kana.Rows()
			}
			for _, key := range svc.Recommendations(rows) {
				glyph, _ := kana.Lookup(key)
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s %s\t%s\n",
					key, glyph.Hiragana, glyph.Katakana, svc.KanaStatus(key))
			}
			return nil
		},
	}
}

func newStatusCmd(svc *progress.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "status [kana...]",
		Short: "Show the lifecycle status of kana",
		RunE: func(cmd *cobra.Command, args []string) error {
			keys := args
			if len(keys) == 0 {
				keys = kana.Keys()
			}
			for _, key := range keys {
				glyph, ok := kana.Lookup(key)
				if !ok {
					return fmt.Errorf("unknown kana %q", key)
				}
				line := fmt.Sprintf("%s\t%s\t%s", key, glyph.Hiragana, svc.KanaStatus(key))
				if item, ok := svc.Snapshot().Item(key); ok {
					line += fmt.Sprintf("\tconfidence %.1f", item.Confidence)
					if item.NextReview != nil {
						line += fmt.Sprintf("\tnext review %s", item.NextReview.Format("2006-01-02"))
					}
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
}

func newStatsCmd(svc *progress.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show learning statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats := svc.Stats()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Sessions:       %d\n", stats.Sessions.Total)
			fmt.Fprintf(out, "Total reviews:  %d\n", stats.Achievements.TotalReviews)
			fmt.Fprintf(out, "Kana mastered:  %d / %d\n", stats.Achievements.TotalKanaMastered, len(kana.Keys()))
			fmt.Fprintf(out, "Perfect days:   %d\n", stats.Achievements.PerfectDays)
			fmt.Fprintf(out, "Time studied:   %s total, %s today\n",
				formatSeconds(stats.TimeSpent.Total), formatSeconds(stats.TimeSpent.Today))
			return nil
		},
	}
}

func newStreakCmd(svc *progress.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "streak",
		Short: "Show the current study streak",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := svc.StreakInfo()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Current streak: %d day(s) (longest %d)\n", info.Current, info.Longest)
			if info.WillBreakToday {
				fmt.Fprintln(out, "Study now to keep the streak alive!")
			} else {
				fmt.Fprintf(out, "Hours until the streak breaks: %.0f\n", info.HoursUntilBreak)
			}
			return nil
		},
	}
}

func newSessionCmd(svc *progress.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "session <minutes> <reviews>",
		Short: "Record a completed study session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			minutes, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("minutes must be a number, got %q", args[0])
			}
			reviews, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("reviews must be a number, got %q", args[1])
			}
			return svc.RecordSession(minutes*60, reviews)
		},
	}
}

func newMilestonesCmd(svc *progress.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "milestones",
		Short: "List achieved milestones",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for i, m := range svc.Stats().Achievements.Milestones {
				mark := " "
				if !m.Celebrated {
					mark = "*"
				}
				fmt.Fprintf(out, "%s %2d  %s %d (%s)\n",
					mark, i, m.Type, m.Value, m.AchievedAt.Format("2006-01-02"))
			}
			return nil
		},
	}
}

func newCelebrateCmd(svc *progress.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "celebrate <index>",
		Short: "Mark a milestone as celebrated",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("index must be a number, got %q", args[0])
			}
			return svc.CelebrateMilestone(index)
		},
	}
}

func newPrefsCmd(svc *progress.Service) *cobra.Command {
	var (
		dailyGoal int
		reminder  string
		display   string
		indicator string
	)
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or update preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch progress.PreferencesPatch
			if cmd.Flags().Changed("daily-goal") {
				patch.DailyGoal = &dailyGoal
			}
			if cmd.Flags().Changed("reminder") {
				enabled, err := strconv.ParseBool(reminder)
				if err != nil {
					return fmt.Errorf("reminder must be true or false, got %q", reminder)
				}
				patch.ReminderEnabled = &enabled
			}
			if cmd.Flags().Changed("display-mode") {
				patch.DisplayMode = &display
			}
			if cmd.Flags().Changed("indicator") {
				patch.ProgressIndicator = &indicator
			}

			if patch != (progress.PreferencesPatch{}) {
				if err := svc.UpdatePreferences(patch); err != nil {
					return err
				}
			}

			prefs := svc.Snapshot().Profile.Preferences
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Daily goal:         %d reviews\n", prefs.DailyGoal)
			fmt.Fprintf(out, "Reminder:           %t\n", prefs.ReminderEnabled)
			fmt.Fprintf(out, "Display mode:       %s\n", prefs.DisplayMode)
			fmt.Fprintf(out, "Progress indicator: %s\n", prefs.ProgressIndicator)
			return nil
		},
	}
	cmd.Flags().IntVar(&dailyGoal, "daily-goal", 0, "Reviews per day counted as a perfect day")
	cmd.Flags().StringVar(&reminder, "reminder", "", "Enable the study reminder (true|false)")
	cmd.Flags().StringVar(&display, "display-mode", "", "Display mode (card|list)")
	cmd.Flags().StringVar(&indicator, "indicator", "", "Progress indicator (color|badge|both)")
	return cmd
}

func newExportCmd(svc *progress.Service) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export progress as portable JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := svc.Export()
			if err != nil {
				return err
			}
			if outPath == "" {
				fmt.Fprintln(cmd.OutOrStdout(), data)
				return nil
			}
			if err := os.WriteFile(outPath, []byte(data+"\n"), 0o644); err != nil {
				return fmt.Errorf("failed to write export file: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Write to a file instead of stdout")
	return cmd
}

func newImportCmd(svc *progress.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import a previously exported progress file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read import file: %w", err)
			}
			if err := svc.Import(strings.TrimSpace(string(data))); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "import complete")
			return nil
		},
	}
}

func formatSeconds(s int) string {
	if s < 60 {
		return fmt.Sprintf("%ds", s)
	}
	return fmt.Sprintf("%dm", s/60)
}
