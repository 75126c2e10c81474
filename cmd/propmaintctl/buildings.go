package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/propmaint/backend/internal/buildings"
	"github.com/propmaint/backend/internal/models"
	"github.com/propmaint/backend/internal/schedule"
)

func buildingsCmd() *cobra.Command {
	b := &cobra.Command{Use: "buildings", Short: "Inspect the building roster"}
	b.AddCommand(buildingsListCmd())
	b.AddCommand(buildingsResolveCmd())
	return b
}

func buildingsListCmd() *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List buildings and their apartments",
		RunE: func(cmd *cobra.Command, args []string) error {
			categories := buildings.Categories()
			if category != "" {
				cat, err := models.ParseCategory(category)
				if err != nil {
					return err
				}
				categories = []models.Category{cat}
			}
			if viper.GetBool("json") {
				out := map[models.Category][]buildings.Building{}
				for _, cat := range categories {
					out[cat] = buildings.Buildings(cat)
				}
				return printJSON(os.Stdout, out)
			}
			renderBuildings(os.Stdout, categories)
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "categoria", "", "category filter (Turístico, Corporativo, Vitarooms)")
	return cmd
}

func buildingsResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <name>",
		Short: "Resolve a building name or alias to the roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, ok := buildings.Resolve(args[0])
			if !ok {
				return fmt.Errorf("building %q not found", args[0])
			}
			if viper.GetBool("json") {
				return printJSON(os.Stdout, entry)
			}
			renderEntry(os.Stdout, args[0], entry)
			return nil
		},
	}
}

func scheduleCmd() *cobra.Command {
	s := &cobra.Command{Use: "schedule", Short: "Recurrence rules"}
	s.AddCommand(&cobra.Command{
		Use:   "next <date> [frequency]",
		Short: "Print the next due date after date",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := models.ParseDate(args[0])
			if err != nil {
				return err
			}
			if from.IsZero() {
				return fmt.Errorf("date required")
			}
			freq := models.FrequencyUnset
			if len(args) == 2 {
				if freq, err = models.ParseFrequency(args[1]); err != nil {
					return err
				}
			}
			fmt.Println(schedule.NextDueDate(from, freq))
			return nil
		},
	})
	return s
}
