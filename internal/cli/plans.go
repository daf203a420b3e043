package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"visionlink/internal/types"
)

func (a *app) newPlansCommand() *cobra.Command {
	var popularOnly bool
	cmd := &cobra.Command{
		Use:   "plans",
		Short: "List internet plans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if popularOnly {
				popular, err := a.client.PopularPlans(cmd.Context())
				if err != nil {
					return describe(actionGeneric, err)
				}
				renderPlans(a.out, "Popular plans", popular)
				return nil
			}

			var all, popular []types.Plan
			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				var err error
				all, err = a.client.Plans(ctx)
				return err
			})
			g.Go(func() error {
				var err error
				popular, err = a.client.PopularPlans(ctx)
				return err
			})
			if err := g.Wait(); err != nil {
				return describe(actionGeneric, err)
			}
			renderPlans(a.out, "Plans", all)
			if len(popular) > 0 {
				names := make([]string, 0, len(popular))
				for _, p := range popular {
					names = append(names, p.Name)
				}
				fmt.Fprintln(a.out)
				fmt.Fprintln(a.out, mutedStyle.Render("Most popular: "+strings.Join(names, ", ")))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&popularOnly, "popular", false, "only show popular plans")
	return cmd
}

func (a *app) newPlanCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "plan <slug>",
		Short: "Show one plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.client.Plan(cmd.Context(), args[0])
			if err != nil {
				return describe(actionGeneric, err)
			}
			renderPlan(a.out, *p)
			return nil
		},
	}
}

func (a *app) newSubscribeCommand() *cobra.Command {
	var notes string
	cmd := &cobra.Command{
		Use:   "subscribe <plan-id|slug>",
		Short: "Request a subscription to a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Anonymous users are sent to login before anything goes out.
			if !a.client.IsAuthenticated() {
				return ErrLoginRequired
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				p, perr := a.client.Plan(cmd.Context(), args[0])
				if perr != nil {
					return describe(actionGeneric, perr)
				}
				id = p.ID
			}
			sub, err := a.client.SubscribeToPlan(cmd.Context(), id, notes)
			if err != nil {
				return describe(actionGeneric, err)
			}
			msg := sub.Message
			if msg == "" {
				msg = "Subscription requested."
			}
			fmt.Fprintln(a.out, msg)
			if sub.ID != 0 {
				fmt.Fprintf(a.out, "subscription #%d", sub.ID)
				if sub.Status != "" {
					fmt.Fprintf(a.out, " (%s)", sub.Status)
				}
				fmt.Fprintln(a.out)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&notes, "notes", "", "notes for the sales team")
	return cmd
}
