package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/km-arc/nexus-site/framework/http/validation"
)

var errInvalidValue = errors.New("invalid value")

type checkFlags struct {
	rules     string
	fieldType string
	required  bool
	minLength int
}

func newCheckCmd() *cobra.Command {
	flags := &checkFlags{}

	cmd := &cobra.Command{
		Use:   "check VALUE",
		Short: "Validate a single value the way a form field would",
		Example: `  nexus check --rules "required|email" user@example.com
  nexus check --type tel --minlength 12 "+1 555 123 4567"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			field, err := flags.field(cmd)
			if err != nil {
				return err
			}
			field.Value = args[0]

			res := validation.ValidateField(field)
			if !res.Valid {
				fmt.Fprintln(cmd.OutOrStdout(), res.Message)
				return errInvalidValue
			}
			fmt.Fprintln(cmd.OutOrStdout(), "valid")
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.rules, "rules", "", `Rule string such as "required|email|min:10"`)
	cmd.Flags().StringVar(&flags.fieldType, "type", "text", "Input type: text, textarea, email or tel")
	cmd.Flags().BoolVar(&flags.required, "required", false, "Value must not be blank")
	cmd.Flags().IntVar(&flags.minLength, "minlength", 0, "Minimum number of characters")
	cmd.MarkFlagsMutuallyExclusive("rules", "type")
	cmd.MarkFlagsMutuallyExclusive("rules", "required")
	cmd.MarkFlagsMutuallyExclusive("rules", "minlength")

	return cmd
}

func (f *checkFlags) field(cmd *cobra.Command) (validation.Field, error) {
	if cmd.Flags().Changed("rules") {
		return validation.ParseRules("value", f.rules)
	}
	if f.minLength < 0 {
		return validation.Field{}, fmt.Errorf("%w: minlength must not be negative", validation.ErrInvalidParam)
	}
	return validation.Field{
		Name:      "value",
		Type:      validation.ParseType(f.fieldType),
		Required:  f.required,
		MinLength: f.minLength,
	}, nil
}
