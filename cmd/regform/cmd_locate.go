package main

import (
	"errors"
	"fmt"

	"regform/internal/form"
	"regform/internal/geo"
	"regform/internal/registration"

	"github.com/spf13/cobra"
)

var locateURLOnly bool

// strengthCmd classifies a password
var strengthCmd = &cobra.Command{
	Use:   "strength PASSWORD",
	Short: "Print the strength label of a password",
	Long: `Prints Weak, Moderate or Strong.

Shorter than 6 characters is Weak. Containing both an uppercase letter and a
digit is Strong. Anything else is Moderate.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), registration.ClassifyPassword(args[0]))
		return err
	},
}

// locateCmd reads the host location
var locateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Read the host location and print a map preview",
	Args:  cobra.NoArgs,
	RunE:  runLocate,
}

func init() {
	locateCmd.Flags().BoolVar(&locateURLOnly, "url", false, "Print only the map preview URL")
}

func runLocate(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	sess, err := newSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer sess.close(false)

	ctl := form.NewController(sess.initialState(cfg), sess.runner)
	st := ctl.Dispatch(ctx, form.LocateRequested{})
	if st.Notice != "" {
		return errors.New(st.Notice)
	}

	lat, lon := st.Draft.Latitude, st.Draft.Longitude
	preview := geo.MapPreview{EmbedURL: cfg.Map.EmbedURL, Zoom: cfg.Map.Zoom}
	out := cmd.OutOrStdout()

	if locateURLOnly {
		u, _ := preview.URL(lat, lon)
		_, err := fmt.Fprintln(out, u)
		return err
	}
	frame, _ := preview.IFrame(lat, lon)
	_, err = fmt.Fprintf(out, "Latitude:  %s\nLongitude: %s\n\n%s\n", lat, lon, frame)
	return err
}
