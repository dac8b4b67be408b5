package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/cv-tailor/internal/profile"
	"github.com/spigell/cv-tailor/internal/utils"
)

const (
	PromptSave    = "Save"
	PromptDiscard = "Discard"

	listSeparator = ";"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or edit the saved user profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved profile",
	Run: func(cmd *cobra.Command, _ []string) {
		showProfile(cmd)
	},
}

var profileEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Create or update the profile interactively",
	Run: func(_ *cobra.Command, _ []string) {
		editProfile()
	},
}

func init() {
	profileCmd.AddCommand(profileShowCmd, profileEditCmd)
	rootCmd.AddCommand(profileCmd)
}

func showProfile(cmd *cobra.Command) {
	ctx, cancel, logger, config := setup()
	defer cancel()

	p, err := profile.NewFile(config.ProfileFile).Load(ctx)
	if err != nil {
		logger.Fatal("loading the profile", zap.Error(err), zap.String("filename", config.ProfileFile))
	}

	pretty, _ := json.MarshalIndent(p, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(pretty))
}

func editProfile() {
	ctx, cancel, logger, config := setup()
	defer cancel()

	repo := profile.NewFile(config.ProfileFile)

	current, err := repo.Load(ctx)
	switch {
	case errors.Is(err, profile.ErrMissing):
		current = &profile.Profile{}
	case err != nil:
		logger.Fatal("loading the profile", zap.Error(err))
	}

	updated, err := promptProfile(current)
	if err != nil {
		logger.Fatal("editing the profile", zap.Error(err))
	}

	confirm := promptui.Select{
		Label: "Save the profile?",
		Items: []string{PromptSave, PromptDiscard},
	}
	_, action, err := confirm.Run()
	if err != nil {
		logger.Fatal("exiting", zap.Error(err))
	}

	if action != PromptSave {
		logger.Info("exiting", zap.String("reason", "profile changes discarded"))
		return
	}

	if err := repo.Save(ctx, updated); err != nil {
		logger.Fatal("saving the profile", zap.Error(err))
	}

	logger.Info("profile saved", zap.String("filename", repo.Path()))
}

func promptProfile(current *profile.Profile) (*profile.Profile, error) {
	p := current.Clone()

	fields := []struct {
		label    string
		value    *string
		required bool
	}{
		{label: "Name", value: &p.Name, required: true},
		{label: "Contact (email, phone, links)", value: &p.Contact},
		{label: "University", value: &p.University},
		{label: "Degree", value: &p.Degree},
		{label: "Courses", value: &p.Courses},
		{label: "Skills", value: &p.Skills},
	}

	for _, field := range fields {
		value, err := promptText(field.label, *field.value, field.required)
		if err != nil {
			return nil, err
		}
		*field.value = value
	}

	lists := []struct {
		label string
		value *[]string
	}{
		{label: "Experience", value: &p.Experience},
		{label: "Projects", value: &p.Projects},
	}

	for _, list := range lists {
		value, err := promptText(list.label+" (separated by "+listSeparator+")", strings.Join(*list.value, listSeparator+" "), false)
		if err != nil {
			return nil, err
		}
		*list.value = utils.NonEmpty(strings.Split(value, listSeparator))
	}

	return p, nil
}

func promptText(label, current string, required bool) (string, error) {
	prompt := promptui.Prompt{
		Label:     label,
		Default:   current,
		AllowEdit: true,
	}
	if required {
		prompt.Validate = func(input string) error {
			if strings.TrimSpace(input) == "" {
				return errors.New("value is required")
			}
			return nil
		}
	}

	value, err := prompt.Run()
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(value), nil
}
