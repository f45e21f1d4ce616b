package main

import (
	"fmt"

	"github.com/rodstewart/estatectl/internal/models"
	"github.com/rodstewart/estatectl/internal/resources"
	"github.com/spf13/cobra"
)

var (
	propertyTitle       string
	propertyDescription string
	propertyAddress     string
	propertyCity        string
	propertyCategory    string
	propertyStatus      string
	propertyPrice       float64
	propertyBedrooms    int
	propertyBathrooms   int
	propertyArea        float64
)

func addPropertyCommands(cmd *cobra.Command) *cobra.Command {
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Add a property listing",
		Long: `Add a property listing. Images are uploaded separately.

Examples:
  estatectl properties create --title "Sea View Villa" --city Nice --price 1250000 --category villa`,
		Args: cobra.NoArgs,
		RunE: runPropertyCreate,
	}
	addPropertyFlags(createCmd)
	createCmd.Flags().StringVar(&propertyStatus, "status", "", "status (available, rented, sold, pending)")
	createCmd.Flags().IntVar(&propertyBedrooms, "bedrooms", 0, "number of bedrooms")
	createCmd.Flags().IntVar(&propertyBathrooms, "bathrooms", 0, "number of bathrooms")
	createCmd.Flags().Float64Var(&propertyArea, "area", 0, "area in square meters")

	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a property's details",
		Long: `Update a property. Only the flags given are changed; use 'properties status'
to change the status.

Examples:
  estatectl properties update 12 --price 1190000`,
		Args: cobra.ExactArgs(1),
		RunE: runPropertyUpdate,
	}
	addPropertyFlags(updateCmd)

	cmd.AddCommand(createCmd, updateCmd)
	return cmd
}

func addPropertyFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&propertyTitle, "title", "", "listing title")
	cmd.Flags().StringVar(&propertyDescription, "description", "", "description")
	cmd.Flags().StringVar(&propertyAddress, "address", "", "street address")
	cmd.Flags().StringVar(&propertyCity, "city", "", "city")
	cmd.Flags().StringVar(&propertyCategory, "category", "", "category")
	cmd.Flags().Float64Var(&propertyPrice, "price", 0, "price")
}

func runPropertyCreate(cmd *cobra.Command, args []string) error {
	def := resources.Properties()
	payload := models.PropertyCreate{
		Title:       propertyTitle,
		Description: propertyDescription,
		Address:     propertyAddress,
		City:        propertyCity,
		Category:    propertyCategory,
		Status:      propertyStatus,
		Price:       propertyPrice,
		Bedrooms:    propertyBedrooms,
		Bathrooms:   propertyBathrooms,
		Area:        propertyArea,
	}

	s, c, cleanup, err := openController(cmd, def)
	if err != nil {
		return err
	}
	defer cleanup()

	created, err := c.Create(s.ctx, payload)
	if err != nil {
		return fmt.Errorf("failed to create property: %w", err)
	}

	if jsonOutput {
		return outputJSON(created)
	}
	if created.RecordID() == "" {
		fmt.Printf("✓ Property added: %s\n", propertyTitle)
		return nil
	}
	fmt.Printf("✓ Property added: %s (ID: %s)\n", created.Title, created.RecordID())
	return nil
}

func runPropertyUpdate(cmd *cobra.Command, args []string) error {
	id := args[0]
	def := resources.Properties()

	var patch models.PropertyUpdate
	flags := cmd.Flags()
	if flags.Changed("title") {
		patch.Title = &propertyTitle
	}
	if flags.Changed("description") {
		patch.Description = &propertyDescription
	}
	if flags.Changed("address") {
		patch.Address = &propertyAddress
	}
	if flags.Changed("city") {
		patch.City = &propertyCity
	}
	if flags.Changed("category") {
		patch.Category = &propertyCategory
	}
	if flags.Changed("price") {
		patch.Price = &propertyPrice
	}
	if patch == (models.PropertyUpdate{}) {
		return fmt.Errorf("nothing to update: pass at least one of --title, --description, --address, --city, --category, --price")
	}

	s, c, cleanup, err := openController(cmd, def)
	if err != nil {
		return err
	}
	defer cleanup()

	updated, err := c.Update(s.ctx, id, patch)
	if err != nil {
		return fmt.Errorf("failed to update property %s: %w", id, err)
	}

	if jsonOutput {
		return outputJSON(updated)
	}
	fmt.Printf("✓ Property %s updated\n", id)
	return nil
}
