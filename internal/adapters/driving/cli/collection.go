package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var collectionCmd = &cobra.Command{
	Use:   "collection",
	Short: "Manage collection display metadata and aliases",
}

var collectionTitleCmd = &cobra.Command{
	Use:   "title [name] [title]",
	Short: "Set a collection's display title",
	Args:  cobra.ExactArgs(2),
	RunE:  runCollectionTitle,
}

var collectionLogoCmd = &cobra.Command{
	Use:   "logo [name] [url]",
	Short: "Set a collection's logo URL",
	Args:  cobra.ExactArgs(2),
	RunE:  runCollectionLogo,
}

var collectionAliasCmd = &cobra.Command{
	Use:   "alias [alias] [target]",
	Short: "Make one collection name redirect to another",
	Long: `Creates an alias so that lookups against the alias name resolve to the
target collection. Resolution is one hop deep: an alias pointing at
another alias resolves to the intermediate name, not beyond it.`,
	Args: cobra.ExactArgs(2),
	RunE: runCollectionAlias,
}

var collectionUnaliasCmd = &cobra.Command{
	Use:   "unalias [alias]",
	Short: "Remove a collection alias",
	Args:  cobra.ExactArgs(1),
	RunE:  runCollectionUnalias,
}

var collectionShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show a collection's display metadata",
	Args:  cobra.ExactArgs(1),
	RunE:  runCollectionShow,
}

func init() {
	collectionCmd.AddCommand(collectionTitleCmd)
	collectionCmd.AddCommand(collectionLogoCmd)
	collectionCmd.AddCommand(collectionAliasCmd)
	collectionCmd.AddCommand(collectionUnaliasCmd)
	collectionCmd.AddCommand(collectionShowCmd)
	rootCmd.AddCommand(collectionCmd)
}

func runCollectionTitle(cmd *cobra.Command, args []string) error {
	if collectionService == nil {
		return errors.New("collection service not configured")
	}

	if err := collectionService.SetTitle(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set title: %w", err)
	}

	cmd.Printf("Title for %s set to %q.\n", args[0], args[1])
	return nil
}

func runCollectionLogo(cmd *cobra.Command, args []string) error {
	if collectionService == nil {
		return errors.New("collection service not configured")
	}

	if err := collectionService.SetLogo(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set logo: %w", err)
	}

	cmd.Printf("Logo for %s set to %s.\n", args[0], args[1])
	return nil
}

func runCollectionAlias(cmd *cobra.Command, args []string) error {
	if collectionService == nil {
		return errors.New("collection service not configured")
	}

	if err := collectionService.SetAlias(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set alias: %w", err)
	}

	cmd.Printf("%s now redirects to %s.\n", args[0], args[1])
	return nil
}

func runCollectionUnalias(cmd *cobra.Command, args []string) error {
	if collectionService == nil {
		return errors.New("collection service not configured")
	}

	if err := collectionService.RemoveAlias(args[0]); err != nil {
		return fmt.Errorf("failed to remove alias: %w", err)
	}

	cmd.Printf("Alias %s removed.\n", args[0])
	return nil
}

func runCollectionShow(cmd *cobra.Command, args []string) error {
	if collectionService == nil {
		return errors.New("collection service not configured")
	}

	name := args[0]
	meta := collectionService.GetMetadata(name)
	if meta == nil {
		cmd.Printf("No metadata for collection %s.\n", name)
		return nil
	}

	cmd.Printf("Collection: %s\n", name)
	if meta.IsAlias() {
		cmd.Printf("  Alias of: %s\n", meta.AliasOf)
	}
	if title := collectionService.GetTitle(name); title != "" {
		cmd.Printf("  Title:    %s\n", title)
	}
	if logo := collectionService.GetLogo(name); logo != "" {
		cmd.Printf("  Logo:     %s\n", logo)
	}
	return nil
}
