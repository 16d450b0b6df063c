package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/application/handlers"
	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/domain/entities"
)

func newCareerCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "career ENTITY_ID",
		Short: "Show the career timeline of a member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(deps *Deps) error {
				result, err := deps.QueryHandler.Career(cmd.Context(), entities.EntityID(args[0]))
				if err != nil {
					return err
				}
				if asJSON {
					encoder := json.NewEncoder(os.Stdout)
					encoder.SetIndent("", "  ")
					return encoder.Encode(result.Career)
				}
				printCareer(result)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the career record as JSON")

	return cmd
}

func printCareer(r *handlers.CareerResult) {
	rec := r.Career
	fmt.Printf("%s (%s)\n", displayName(rec.Name), rec.EntityID)
	if rec.BirthYear != nil {
		fmt.Printf("Born: %d\n", *rec.BirthYear)
	}
	if rec.Span != nil {
		fmt.Printf("Career: %d-%d (%d years)\n", rec.Span.Start, rec.Span.End, rec.Span.Years())
	}
	if r.PrimaryClub != nil {
		fmt.Printf("Primary club: %s\n", displayName(r.PrimaryClub.Group))
	}
	if r.NationalDebut != nil {
		fmt.Printf("National team debut: %d (%s)\n", *r.NationalDebut.StartYear, displayName(r.NationalDebut.Group))
	}

	for _, cat := range entities.AllCategories {
		first := true
		for i, a := range rec.Affiliations {
			if a.Category != cat {
				continue
			}
			if first {
				fmt.Printf("\n%s:\n", categoryTitle(cat))
				first = false
			}
			tenure := "?"
			if r.Tenures[i] >= 0 {
				tenure = fmt.Sprintf("%dy", r.Tenures[i])
			}
			jersey := ""
			if a.Jersey != "" {
				jersey = " #" + a.Jersey
			}
			fmt.Printf("  %-12s %-5s %s%s\n", formatYears(a.StartYear, a.EndYear, a.IsOpenEnded), tenure, displayName(a.Group), jersey)
		}
	}

	if len(rec.Jerseys) > 0 {
		fmt.Println("\nJersey numbers:")
		for _, j := range rec.Jerseys {
			teams := make([]string, 0, len(j.Teams))
			for _, t := range j.Teams {
				teams = append(teams, string(t))
			}
			fmt.Printf("  #%-4s %-12s %s\n", j.Number, formatYears(j.StartYear, j.EndYear, j.IsCurrent), strings.Join(teams, ", "))
		}
	}
}

// displayName renders a name record as "localized (primary)" when both differ.
func displayName(n entities.NameRecord) string {
	name := n.DisplayName()
	if n.PrimaryName != "" && n.PrimaryName != name {
		return fmt.Sprintf("%s (%s)", name, n.PrimaryName)
	}
	return name
}

func formatYears(start, end *int, open bool) string {
	from := "?"
	if start != nil {
		from = fmt.Sprint(*start)
	}
	to := "?"
	switch {
	case end != nil:
		to = fmt.Sprint(*end)
	case open:
		to = "present"
	}
	return from + "-" + to
}

func categoryTitle(c entities.Category) string {
	switch c {
	case entities.CategoryClub:
		return "Clubs"
	case entities.CategoryNationalTeam:
		return "National teams"
	case entities.CategoryYouthTeam:
		return "Youth teams"
	default:
		return string(c)
	}
}
