package main

import (
	"context"
	"fmt"
	"os"

	"followgraph"
	"followgraph/internal/config"
	"followgraph/internal/version"
	"followgraph/store"

	"github.com/charmbracelet/lipgloss"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	selfID  string
	sampleK int

	cfg *config.Config

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	memberStyle = lipgloss.NewStyle().PaddingLeft(2)
	countStyle  = lipgloss.NewStyle().Faint(true)
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "followgraph",
	Short: "Followgraph - set-store backed follows graph",
	Long: `Followgraph maintains a directed follows graph on top of a
set-oriented key-value store (Redis, SQLite or in-memory) and answers
set-algebra queries over it, including bounded random sampling.`,
	Version: version.Full(),
}

var followCmd = &cobra.Command{
	Use:   "follow TARGET...",
	Short: "Follow one or more identities",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUser(func(ctx context.Context, u *followgraph.User) error {
			return u.Follow(ctx, toAny(args)...)
		})
	},
}

var unfollowCmd = &cobra.Command{
	Use:   "unfollow TARGET...",
	Short: "Unfollow one or more identities",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUser(func(ctx context.Context, u *followgraph.User) error {
			return u.Unfollow(ctx, toAny(args)...)
		})
	},
}

var followingCmd = &cobra.Command{
	Use:   "following",
	Short: "List identities this user follows",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUser(func(ctx context.Context, u *followgraph.User) error {
			members, err := u.Following(ctx)
			if err != nil {
				return err
			}
			printMembers("following", members)
			return nil
		})
	},
}

var followersCmd = &cobra.Command{
	Use:   "followers",
	Short: "List identities following this user",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUser(func(ctx context.Context, u *followgraph.User) error {
			members, err := u.Followers(ctx)
			if err != nil {
				return err
			}
			printMembers("followers", members)
			return nil
		})
	},
}

var commonCmd = &cobra.Command{
	Use:   "common {followers|following} OTHER...",
	Short: "Intersect this user's set with other users' sets",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUser(func(ctx context.Context, u *followgraph.User) error {
			members, err := bySet(ctx, args[0],
				func(ctx context.Context) ([]string, error) {
					return u.CommonFollowers(ctx, toAny(args[1:])...)
				},
				func(ctx context.Context) ([]string, error) {
					return u.CommonFollowing(ctx, toAny(args[1:])...)
				})
			if err != nil {
				return err
			}
			printMembers("common "+args[0], members)
			return nil
		})
	},
}

var diffCmd = &cobra.Command{
	Use:   "diff {followers|following} OTHER...",
	Short: "Subtract other users' sets from this user's set",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUser(func(ctx context.Context, u *followgraph.User) error {
			members, err := bySet(ctx, args[0],
				func(ctx context.Context) ([]string, error) {
					return u.DifferentFollowers(ctx, toAny(args[1:])...)
				},
				func(ctx context.Context) ([]string, error) {
					return u.DifferentFollowing(ctx, toAny(args[1:])...)
				})
			if err != nil {
				return err
			}
			printMembers("diff "+args[0], members)
			return nil
		})
	},
}

var randomCmd = &cobra.Command{
	Use:   "random {followers|following}",
	Short: "Draw a bounded duplicate-free random sample",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUser(func(ctx context.Context, u *followgraph.User) error {
			members, err := bySet(ctx, args[0],
				func(ctx context.Context) ([]string, error) {
					return u.RandomFollowers(ctx, sampleK)
				},
				func(ctx context.Context) ([]string, error) {
					return u.RandomFollowing(ctx, sampleK)
				})
			if err != nil {
				return err
			}
			printMembers(fmt.Sprintf("random %s (k=%d)", args[0], sampleK), members)
			return nil
		})
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "followgraph.yaml", "config file path")
	rootCmd.PersistentFlags().StringVar(&selfID, "id", "", "acting identity")

	randomCmd.Flags().IntVarP(&sampleK, "count", "k", 10, "sample size")

	rootCmd.AddCommand(followCmd)
	rootCmd.AddCommand(unfollowCmd)
	rootCmd.AddCommand(followingCmd)
	rootCmd.AddCommand(followersCmd)
	rootCmd.AddCommand(commonCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(randomCmd)
	rootCmd.AddCommand(seedCmd)
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
}

// openStore builds the configured SetStore backend.
func openStore() (store.SetStore, error) {
	switch cfg.Store.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Store.Redis.Addr,
			Password: cfg.Store.Redis.Password,
			DB:       cfg.Store.Redis.DB,
		})
		return store.NewRedis(client), nil
	case "sqlite":
		return store.NewSQLite(cfg.Store.SQLite.Path)
	case "memory":
		return store.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

func withUser(fn func(ctx context.Context, u *followgraph.User) error) error {
	if selfID == "" {
		return fmt.Errorf("--id is required")
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	u := followgraph.NewUser(st, selfID, followgraph.WithPrefix(cfg.Prefix))
	return fn(context.Background(), u)
}

func bySet(ctx context.Context, set string,
	followers, following func(context.Context) ([]string, error)) ([]string, error) {
	switch set {
	case "followers":
		return followers(ctx)
	case "following":
		return following(ctx)
	default:
		return nil, fmt.Errorf("expected \"followers\" or \"following\", got %q", set)
	}
}

func printMembers(title string, members []string) {
	fmt.Println(titleStyle.Render(title))
	for _, m := range members {
		fmt.Println(memberStyle.Render(m))
	}
	fmt.Println(countStyle.Render(fmt.Sprintf("%d member(s)", len(members))))
}

func toAny(args []string) []interface{} {
	out := make([]interface{}, len(args))
	for i, a := range args {
		out[i] = a
	}
	return out
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
