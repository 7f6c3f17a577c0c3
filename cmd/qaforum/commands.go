package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"

	"github.com/k0kubun/pp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/saltyorg/qaforum/internal/config"
	"github.com/saltyorg/qaforum/internal/database"
	"github.com/saltyorg/qaforum/internal/maintenance"
	"github.com/saltyorg/qaforum/internal/metrics"
	"github.com/saltyorg/qaforum/internal/seed"
	"github.com/saltyorg/qaforum/internal/web"
)

func seedCmd() *cobra.Command {
	opts := seed.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the database with generated forum data",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(cmd)
			db := openDB(cfg)
			defer db.Close()

			if err := db.EnsureSchema(); err != nil {
				return fmt.Errorf("failed to create schema: %w", err)
			}
			_, err := seed.Run(db, opts)
			return err
		},
	}

	cmd.Flags().IntVar(&opts.Users, "users", opts.Users, "Number of users to create")
	cmd.Flags().IntVar(&opts.Questions, "questions", opts.Questions, "Number of questions to create")
	cmd.Flags().IntVar(&opts.Replies, "replies", opts.Replies, "Number of replies to create")
	cmd.Flags().IntVar(&opts.Likes, "likes", opts.Likes, "Number of question likes to create")
	cmd.Flags().IntVar(&opts.Follows, "follows", opts.Follows, "Number of question follows to create")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "Random seed (0 picks one)")

	return cmd
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "show question|user|reply ID",
		Short:     "Print a record and its relationships",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"question", "user", "reply"},
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q: %w", args[1], err)
			}

			cfg := loadConfig(cmd)
			db := openDB(cfg)
			defer db.Close()

			view, err := describe(db, args[0], id)
			if err != nil {
				return err
			}
			_, err = pp.Println(view)
			return err
		},
	}
}

// describe gathers a record and the records related to it
func describe(db *database.DB, kind string, id int64) (map[string]any, error) {
	switch kind {
	case "question":
		q, err := first(db.FindQuestionByID(id))
		if err != nil {
			return nil, err
		}
		if q == nil {
			return nil, fmt.Errorf("question %d not found", id)
		}
		return gather(map[string]func() (any, error){
			"question":  func() (any, error) { return q, nil },
			"author":    func() (any, error) { return q.Author(db) },
			"replies":   func() (any, error) { return q.Replies(db) },
			"followers": func() (any, error) { return q.Followers(db) },
			"likers":    func() (any, error) { return q.Likers(db) },
			"num_likes": func() (any, error) { return q.NumLikes(db) },
		})
	case "user":
		u, err := first(db.FindUserByID(id))
		if err != nil {
			return nil, err
		}
		if u == nil {
			return nil, fmt.Errorf("user %d not found", id)
		}
		return gather(map[string]func() (any, error){
			"user":               func() (any, error) { return u, nil },
			"authored_questions": func() (any, error) { return u.AuthoredQuestions(db) },
			"authored_replies":   func() (any, error) { return u.AuthoredReplies(db) },
			"followed_questions": func() (any, error) { return u.FollowedQuestions(db) },
			"liked_questions":    func() (any, error) { return u.LikedQuestions(db) },
			"average_karma":      func() (any, error) { return u.AverageKarma(db) },
		})
	case "reply":
		r, err := first(db.FindReplyByID(id))
		if err != nil {
			return nil, err
		}
		if r == nil {
			return nil, fmt.Errorf("reply %d not found", id)
		}
		return gather(map[string]func() (any, error){
			"reply":         func() (any, error) { return r, nil },
			"author":        func() (any, error) { return r.Author(db) },
			"question":      func() (any, error) { return r.Question(db) },
			"parent_reply":  func() (any, error) { return r.ParentReply(db) },
			"child_replies": func() (any, error) { return r.ChildReplies(db) },
		})
	default:
		return nil, fmt.Errorf("unknown record kind %q (want question, user or reply)", kind)
	}
}

func gather(fields map[string]func() (any, error)) (map[string]any, error) {
	view := make(map[string]any, len(fields))
	for name, fetch := range fields {
		v, err := fetch()
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", name, err)
		}
		view[name] = v
	}
	return view, nil
}

func first[T any](records []*T, err error) (*T, error) {
	if err != nil {
		return nil, fmt.Errorf("failed to load record: %w", err)
	}
	return database.First(records), nil
}

func topCmd() *cobra.Command {
	var n int

	cmd := &cobra.Command{
		Use:       "top liked|followed",
		Short:     "Rank questions by likes or follows",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"liked", "followed"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(cmd)
			db := openDB(cfg)
			defer db.Close()

			var ranked []database.RankedQuestion
			var err error
			switch args[0] {
			case "liked":
				ranked, err = db.MostLikedQuestionsWithCounts(n)
			case "followed":
				ranked, err = db.MostFollowedQuestionsWithCounts(n)
			default:
				return fmt.Errorf("unknown ranking %q (want liked or followed)", args[0])
			}
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCOUNT\tTITLE")
			for _, r := range ranked {
				fmt.Fprintf(tw, "%d\t%d\t%s\n", r.Question.ID, r.Count, r.Question.Title)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVarP(&n, "limit", "n", 10, "Number of questions to list")
	return cmd
}

func karmaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "karma USER_ID",
		Short: "Print a user's average likes per question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid user id %q: %w", args[0], err)
			}

			cfg := loadConfig(cmd)
			db := openDB(cfg)
			defer db.Close()

			karma, err := db.AverageKarma(id)
			if err != nil {
				return err
			}
			if karma == nil {
				fmt.Println("undefined (user has no questions)")
				return nil
			}
			fmt.Printf("%.2f\n", *karma)
			return nil
		},
	}
}

func maintainCmd() *cobra.Command {
	var vacuum bool

	cmd := &cobra.Command{
		Use:   "maintain",
		Short: "Refresh query planner statistics and optionally compact the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(cmd)
			db := openDB(cfg)
			defer db.Close()

			if err := db.Optimize(); err != nil {
				return err
			}
			log.Info().Str("database", cfg.DBPath).Msg("Database optimized")

			if !vacuum {
				return nil
			}
			if err := db.Vacuum(); err != nil {
				return err
			}
			log.Info().Str("database", cfg.DBPath).Msg("Database vacuumed")
			return nil
		},
	}

	cmd.Flags().BoolVar(&vacuum, "vacuum", false, "Also run VACUUM to reclaim unused space")
	return cmd
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the forum JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(cmd)

			var allowedNet *net.IPNet
			if cfg.AllowSubnet != "" {
				_, parsedNet, err := net.ParseCIDR(cfg.AllowSubnet)
				if err != nil {
					return fmt.Errorf("invalid allow-subnet CIDR: %s", cfg.AllowSubnet)
				}
				allowedNet = parsedNet
			}

			log.Info().
				Str("version", version).
				Str("listen", cfg.Listen).
				Str("allow_subnet", cfg.AllowSubnet).
				Str("database", cfg.DBPath).
				Msg("Starting qaforum")

			db := openDB(cfg)
			defer db.Close()

			scheduler := maintenance.NewScheduler(db, cfg.OptimizeSchedule)
			if err := scheduler.Start(); err != nil {
				return fmt.Errorf("invalid optimize schedule %q: %w", cfg.OptimizeSchedule, err)
			}
			defer scheduler.Stop()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			collector := &metrics.Collector{DB: db, Interval: metrics.DefaultCollectInterval}
			go collector.Run(ctx)

			server := web.NewServer(db, cfg.Listen, allowedNet, cfg.Timeouts, version)
			if err := server.Start(ctx); err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			log.Info().Msg("Shutdown complete")
			return nil
		},
	}

	cmd.Flags().String("listen", config.DefaultListen, "Address to listen on (or set QAFORUM_LISTEN)")
	cmd.Flags().StringP("allow-subnet", "a", "", "CIDR subnet allowed to connect (or set QAFORUM_ALLOW_SUBNET)")
	cmd.Flags().String("optimize-schedule", config.DefaultOptimizeSchedule, "Cron schedule for PRAGMA optimize (or set QAFORUM_OPTIMIZE_SCHEDULE)")
	return cmd
}
