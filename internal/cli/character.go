package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/festivalboard/internal/model"
)

func newCharacterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "character",
		Short: "Character commands for the logged-in user",
	}

	cmd.AddCommand(newCharacterCreateCmd())
	cmd.AddCommand(newCharacterUpdateCmd())
	cmd.AddCommand(newCharacterShowCmd())

	return cmd
}

// appearanceFlags are the editable character fields
type appearanceFlags struct {
	name        string
	avatar      string
	color       string
	accessories []string
	personality string
}

func (f *appearanceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Character name (2-20 characters)")
	cmd.Flags().StringVar(&f.avatar, "avatar", "", "Avatar emoji")
	cmd.Flags().StringVar(&f.color, "color", "", "Color, e.g. #FF6B35")
	cmd.Flags().StringSliceVar(&f.accessories, "accessory", nil, "Accessory tag, up to 3 (repeatable)")
	cmd.Flags().StringVar(&f.personality, "mbti", "", "Personality type, e.g. INTJ (replaces accessories)")
}

// decoration returns the decoration the flags describe, if any were set
func (f *appearanceFlags) decoration(cmd *cobra.Command) (*model.Decoration, error) {
	if cmd.Flags().Changed("mbti") {
		p, ok := model.ParsePersonality(f.personality)
		if !ok {
			return nil, fmt.Errorf("%w: %q", model.ErrInvalidPersonality, f.personality)
		}
		d := model.PersonalityDecoration(p)
		return &d, nil
	}
	if cmd.Flags().Changed("accessory") {
		d := model.AccessoryDecoration(f.accessories...)
		return &d, nil
	}
	return nil, nil
}

func newCharacterCreateCmd() *cobra.Command {
	var f appearanceFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create the logged-in user's character",
		RunE: action(func(cmd *cobra.Command, args []string) error {
			if err := requireLoaded(); err != nil {
				return err
			}
			if err := createCharacter(cmd, &f); err != nil {
				return err
			}
			return printCurrentCharacter(cmd)
		}),
	}

	f.register(cmd)
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newCharacterUpdateCmd() *cobra.Command {
	var f appearanceFlags

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change the logged-in user's character appearance",
		RunE: action(func(cmd *cobra.Command, args []string) error {
			if err := requireLoaded(); err != nil {
				return err
			}
			var update model.AppearanceUpdate
			if cmd.Flags().Changed("name") {
				update.Name = &f.name
			}
			if cmd.Flags().Changed("avatar") {
				update.Avatar = &f.avatar
			}
			if cmd.Flags().Changed("color") {
				update.Color = &f.color
			}
			d, err := f.decoration(cmd)
			if err != nil {
				return err
			}
			update.Decoration = d
			if update.Empty() {
				return fmt.Errorf("nothing to update: pass at least one of --name, --avatar, --color, --accessory or --mbti")
			}

			if _, err := app.Session.UpdateCharacter(cmd.Context(), update); err != nil {
				return err
			}
			return printCurrentCharacter(cmd)
		}),
	}

	f.register(cmd)

	return cmd
}

func newCharacterShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [username]",
		Short: "Show a character, the logged-in user's by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: action(func(cmd *cobra.Command, args []string) error {
			if err := requireLoaded(); err != nil {
				return err
			}
			if len(args) == 0 {
				return printCurrentCharacter(cmd)
			}
			user, ok := app.Session.Lookup(args[0])
			if !ok {
				return model.ErrPlayerNotFound
			}
			if !user.HasCharacter() {
				return model.ErrNoCharacter
			}
			output(cmd).Print(CharacterFromUser(user))
			return nil
		}),
	}
}

func createCharacter(cmd *cobra.Command, f *appearanceFlags) error {
	appearance := model.Appearance{Name: f.name, Avatar: f.avatar, Color: f.color}
	d, err := f.decoration(cmd)
	if err != nil {
		return err
	}
	if d != nil {
		appearance.Decoration = *d
	}
	_, err = app.Session.CreateCharacter(cmd.Context(), appearance)
	return err
}

func printCurrentCharacter(cmd *cobra.Command) error {
	user, ok := app.Session.CurrentUser()
	if !ok {
		return model.ErrNotAuthenticated
	}
	if !user.HasCharacter() {
		return model.ErrNoCharacter
	}
	output(cmd).Print(CharacterFromUser(user))
	return nil
}
