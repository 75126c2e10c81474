package main

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/propmaint/backend/internal/client"
	"github.com/propmaint/backend/internal/models"
)

func incidentsCmd() *cobra.Command {
	i := &cobra.Command{Use: "incidents", Short: "Incident reports"}
	i.AddCommand(incidentsListCmd())
	i.AddCommand(incidentsShowCmd())
	i.AddCommand(incidentsReportCmd())
	return i
}

func incidentsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List incidents of every category, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, c *client.Client) error {
				incidents, err := c.ListIncidents(ctx)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(os.Stdout, incidents)
				}
				renderIncidents(os.Stdout, incidents)
				return nil
			})
		},
	}
}

func incidentsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show an incident",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, c *client.Client) error {
				inc, err := c.GetIncident(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(os.Stdout, inc)
			})
		},
	}
}

func incidentsReportCmd() *cobra.Command {
	var in models.IncidentInput
	var category, urgency string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Submit the public incident form",
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if in.Category, err = models.ParseCategory(category); err != nil {
				return err
			}
			if in.Urgency, err = models.ParseUrgency(urgency); err != nil {
				return err
			}
			return withClient(cmd.Context(), func(ctx context.Context, c *client.Client) error {
				inc, err := c.CreateIncident(ctx, in)
				if err != nil {
					return err
				}
				return printJSON(os.Stdout, inc)
			})
		},
	}
	cmd.Flags().StringVar(&in.Building, "edificio", "", "building")
	cmd.Flags().StringVar(&in.Apartment, "apartamento", "", "apartment")
	cmd.Flags().StringVar(&in.Description, "descripcion", "", "description")
	cmd.Flags().StringVar(&urgency, "urgencia", string(models.UrgencyMedium), "urgency")
	cmd.Flags().StringVar(&category, "categoria", string(models.CategoryTourist), "category")
	cmd.Flags().StringSliceVar(&in.Photos, "foto", nil, "photo URL (repeatable)")
	return cmd
}

func uploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a photo or PDF and print its URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			contentType := mime.TypeByExtension(filepath.Ext(args[0]))
			if contentType == "" {
				contentType = "application/octet-stream"
			}
			return withClient(cmd.Context(), func(ctx context.Context, c *client.Client) error {
				url, err := c.Upload(ctx, filepath.Base(args[0]), contentType, f)
				if err != nil {
					return err
				}
				fmt.Println(url)
				return nil
			})
		},
	}
}
