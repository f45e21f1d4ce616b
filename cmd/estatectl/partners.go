package main

import (
	"fmt"

	"github.com/rodstewart/estatectl/internal/models"
	"github.com/rodstewart/estatectl/internal/resources"
	"github.com/spf13/cobra"
)

var (
	partnerName        string
	partnerEmail       string
	partnerPhone       string
	partnerWebsite     string
	partnerCategory    string
	partnerStatus      string
	partnerDescription string
)

func addPartnerCommands(cmd *cobra.Command) *cobra.Command {
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Add a partner",
		Long: `Add a partner to the directory.

Examples:
  estatectl partners create --name "Acme Movers" --category moving --website https://acme.example`,
		Args: cobra.NoArgs,
		RunE: runPartnerCreate,
	}
	addPartnerFlags(createCmd)
	createCmd.Flags().StringVar(&partnerStatus, "status", "", "status (active, inactive)")

	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a partner's details",
		Long: `Update a partner. Only the flags given are changed; use 'partners status' to
change the status.

Examples:
  estatectl partners update 7 --email contact@acme.example`,
		Args: cobra.ExactArgs(1),
		RunE: runPartnerUpdate,
	}
	addPartnerFlags(updateCmd)

	cmd.AddCommand(createCmd, updateCmd)
	return cmd
}

func addPartnerFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&partnerName, "name", "", "partner name")
	cmd.Flags().StringVar(&partnerEmail, "email", "", "contact email")
	cmd.Flags().StringVar(&partnerPhone, "phone", "", "contact phone")
	cmd.Flags().StringVar(&partnerWebsite, "website", "", "website URL")
	cmd.Flags().StringVar(&partnerCategory, "category", "", "category")
	cmd.Flags().StringVar(&partnerDescription, "description", "", "description")
}

func runPartnerCreate(cmd *cobra.Command, args []string) error {
	def := resources.Partners()
	payload := models.PartnerCreate{
		Name:        partnerName,
		Email:       partnerEmail,
		Phone:       partnerPhone,
		Website:     partnerWebsite,
		Category:    partnerCategory,
		Status:      partnerStatus,
		Description: partnerDescription,
	}

	s, c, cleanup, err := openController(cmd, def)
	if err != nil {
		return err
	}
	defer cleanup()

	created, err := c.Create(s.ctx, payload)
	if err != nil {
		return fmt.Errorf("failed to create partner: %w", err)
	}

	if jsonOutput {
		return outputJSON(created)
	}
	if created.RecordID() == "" {
		fmt.Printf("✓ Partner added: %s\n", partnerName)
		return nil
	}
	fmt.Printf("✓ Partner added: %s (ID: %s)\n", created.Name, created.RecordID())
	return nil
}

func runPartnerUpdate(cmd *cobra.Command, args []string) error {
	id := args[0]
	def := resources.Partners()

	var patch models.PartnerUpdate
	flags := cmd.Flags()
	if flags.Changed("name") {
		patch.Name = &partnerName
	}
	if flags.Changed("email") {
		patch.Email = &partnerEmail
	}
	if flags.Changed("phone") {
		patch.Phone = &partnerPhone
	}
	if flags.Changed("website") {
		patch.Website = &partnerWebsite
	}
	if flags.Changed("category") {
		patch.Category = &partnerCategory
	}
	if flags.Changed("description") {
		patch.Description = &partnerDescription
	}
	if patch == (models.PartnerUpdate{}) {
		return fmt.Errorf("nothing to update: pass at least one of --name, --email, --phone, --website, --category, --description")
	}

	s, c, cleanup, err := openController(cmd, def)
	if err != nil {
		return err
	}
	defer cleanup()

	updated, err := c.Update(s.ctx, id, patch)
	if err != nil {
		return fmt.Errorf("failed to update partner %s: %w", id, err)
	}

	if jsonOutput {
		return outputJSON(updated)
	}
	fmt.Printf("✓ Partner %s updated\n", id)
	return nil
}
