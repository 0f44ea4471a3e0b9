package main

import (
	"context"
	"fmt"
	"math/rand/v2"

	"followgraph"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	seedUsers   int
	seedFollows int
)

// seedCmd populates the store with random identities and follow edges,
// handy for trying the sampling commands against a non-trivial graph.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the store with random users and follow edges",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := context.Background()

		ids := make([]string, seedUsers)
		for i := range ids {
			ids[i] = uuid.NewString()
		}

		for _, id := range ids {
			u := followgraph.NewUser(st, id, followgraph.WithPrefix(cfg.Prefix))
			targets := make([]interface{}, 0, seedFollows)
			for len(targets) < seedFollows {
				t := ids[rand.IntN(len(ids))]
				if t != id {
					targets = append(targets, t)
				}
			}
			if err := u.Follow(ctx, targets...); err != nil {
				return err
			}
		}

		fmt.Printf("seeded %d users with %d follows each\n", seedUsers, seedFollows)
		fmt.Printf("try: followgraph --id %s followers\n", ids[0])
		return nil
	},
}

func init() {
	seedCmd.Flags().IntVar(&seedUsers, "users", 50, "number of identities to create")
	seedCmd.Flags().IntVar(&seedFollows, "follows", 10, "follow edges per identity")
}
