package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/domain/entities"
	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/domain/ports"
)

type pairFlags struct {
	member    string
	group     string
	category  string
	localized bool
	limit     int
}

func (f pairFlags) filter() ports.PairFilter {
	return ports.PairFilter{
		MemberID:      entities.EntityID(f.member),
		GroupID:       entities.EntityID(f.group),
		Category:      entities.Category(f.category),
		LocalizedOnly: f.localized,
		Limit:         f.limit,
	}
}

func addPairFlags(cmd *cobra.Command, flags *pairFlags, defaultLimit int) {
	cmd.Flags().StringVarP(&flags.member, "member", "m", "", "Only pairs involving this member")
	cmd.Flags().StringVarP(&flags.group, "group", "g", "", "Only pairs in this group")
	cmd.Flags().StringVarP(&flags.category, "category", "c", "", "Only pairs in groups of this category (club, national_team, youth_team)")
	cmd.Flags().BoolVar(&flags.localized, "localized", false, "Only pairs where both members and the group have localized names")
	cmd.Flags().IntVarP(&flags.limit, "limit", "l", defaultLimit, "Maximum number of pairs")
}

func newTeammatesCmd() *cobra.Command {
	var flags pairFlags

	cmd := &cobra.Command{
		Use:   "teammates",
		Short: "List candidate teammate pairs",
		Long:  "Lists pairs of members whose stints in the same group overlap, as found by the last build.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(deps *Deps) error {
				pairs, err := deps.QueryHandler.Teammates(cmd.Context(), flags.filter())
				if err != nil {
					return err
				}
				printPairs(pairs)
				return nil
			})
		},
	}

	addPairFlags(cmd, &flags, DefaultTeammatesLimit)

	return cmd
}

func printPairs(pairs []entities.CandidatePair) {
	if len(pairs) == 0 {
		fmt.Println("No candidate pairs found.")
		return
	}

	for _, p := range pairs {
		fmt.Printf("%s %s  +  %s %s  @ %s [%s]\n",
			displayName(p.NameA), formatYears(p.IntervalA.Start, p.IntervalA.End, p.IntervalA.End == nil),
			displayName(p.NameB), formatYears(p.IntervalB.Start, p.IntervalB.End, p.IntervalB.End == nil),
			displayName(p.GroupName), p.Category)
	}
	fmt.Printf("\n%d pairs\n", len(pairs))
}
