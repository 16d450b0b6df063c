package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/domain/entities"
)

func newMembersCmd() *cobra.Command {
	var current bool

	cmd := &cobra.Command{
		Use:   "members GROUP_ID",
		Short: "List the members of a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(deps *Deps) error {
				members, err := deps.QueryHandler.Members(cmd.Context(), entities.EntityID(args[0]))
				if err != nil {
					return err
				}
				printMembers(args[0], members, current)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&current, "current", false, "Only show ongoing memberships")

	return cmd
}

func printMembers(groupID string, members []entities.AffiliationInterval, current bool) {
	if len(members) == 0 {
		fmt.Printf("No members found for %s\n", groupID)
		return
	}

	group := members[0].Group
	fmt.Printf("%s (%s), %s\n\n", displayName(group), groupID, members[0].Category)
	fmt.Printf("%-12s %-14s %s\n", "MEMBER", "YEARS", "JERSEY")
	fmt.Printf("%-12s %-14s %s\n", "------", "-----", "------")

	shown := 0
	for _, m := range members {
		if current && !m.IsCurrent() {
			continue
		}
		fmt.Printf("%-12s %-14s %s\n", m.MemberID, formatYears(m.StartYear, m.EndYear, m.IsOpenEnded), m.Jersey)
		shown++
	}
	fmt.Printf("\n%d members\n", shown)
}
