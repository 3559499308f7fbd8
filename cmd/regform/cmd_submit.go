package main

import (
	"errors"
	"fmt"

	"regform/internal/form"
	"regform/internal/registration"

	"github.com/spf13/cobra"
)

var (
	draftFile    string
	submitLocate bool
	submitLookup bool
	plainOutput  bool
)

// submitCmd sends a draft file without the interactive form
var submitCmd = &cobra.Command{
	Use:   "submit -f draft.yaml",
	Short: "Validate and submit a draft file",
	Long: `Loads a draft from YAML, runs it through the same form logic as the
interactive command and submits it.

With --lookup the phone number is looked up first and the stored customer
record prefills every field the file leaves empty. With --locate the host
location replaces the file's coordinates.

Exits non-zero when validation fails or the service rejects the registration.`,
	Args: cobra.NoArgs,
	RunE: runSubmit,
}

// validateCmd checks a draft file without submitting
var validateCmd = &cobra.Command{
	Use:   "validate -f draft.yaml",
	Short: "Print a validation report for a draft file",
	Args:  cobra.NoArgs,
	RunE:  runValidate,
}

func init() {
	for _, c := range []*cobra.Command{submitCmd, validateCmd} {
		c.Flags().StringVarP(&draftFile, "file", "f", "", "Draft file (YAML)")
		_ = c.MarkFlagRequired("file")
		c.Flags().BoolVar(&plainOutput, "plain", false, "Print the report as raw markdown")
	}
	submitCmd.Flags().BoolVar(&submitLocate, "locate", false, "Fill coordinates from the host")
	submitCmd.Flags().BoolVar(&submitLookup, "lookup", false, "Prefill from the stored customer record")
}

func runSubmit(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	out := cmd.OutOrStdout()

	d, err := registration.LoadDraft(draftFile)
	if err != nil {
		return err
	}

	sess, err := newSession(ctx, cfg)
	if err != nil {
		return err
	}
	ctl := form.NewController(sess.initialState(cfg), sess.runner)
	defer func() { sess.close(ctl.State().Submitted) }()

	ctl.FillDraft(ctx, d, submitLookup)
	if submitLocate {
		if st := ctl.Dispatch(ctx, form.LocateRequested{}); st.Notice != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", st.Notice)
			ctl.Dispatch(ctx, form.NoticeDismissed{})
		}
	}

	st := ctl.Dispatch(ctx, form.SubmitRequested{})
	switch {
	case len(st.Errors) > 0:
		if err := printReport(out, draftFile, st.Draft, st.Errors); err != nil {
			return err
		}
		return st.Errors.Err()
	case st.SubmitError != "":
		return errors.New(st.SubmitError)
	}
	_, err = fmt.Fprintln(out, form.MessageSubmitted)
	return err
}

func runValidate(cmd *cobra.Command, args []string) error {
	d, err := registration.LoadDraft(draftFile)
	if err != nil {
		return err
	}
	errs := registration.Validate(d)
	if err := printReport(cmd.OutOrStdout(), draftFile, d, errs); err != nil {
		return err
	}
	return errs.Err()
}
