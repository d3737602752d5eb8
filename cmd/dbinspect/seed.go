package main

import (
	"context"
	"crypto/rand"
	"fmt"
	mathrand "math/rand/v2"
	"time"

	"github.com/spf13/cobra"

	"github.com/cinetag/cinetag-server/internal/auth"
	"github.com/cinetag/cinetag-server/internal/domain"
	"github.com/cinetag/cinetag-server/internal/events"
	"github.com/cinetag/cinetag-server/internal/logger"
	"github.com/cinetag/cinetag-server/internal/media/images"
	"github.com/cinetag/cinetag-server/internal/service"
	"github.com/cinetag/cinetag-server/internal/validation"
)

var (
	seedUsers int
	seedPosts int
)

func init() {
	seedCmd.Flags().IntVar(&seedUsers, "users", 4, "number of demo users to create")
	seedCmd.Flags().IntVar(&seedPosts, "posts", 3, "posts per user")
	rootCmd.AddCommand(seedCmd)
}

var seedMovies = []struct {
	name    string
	summary string
	genre   []string
}{
	{"Heat", "A crew of thieves and the detective chasing them.", []string{"Crime", "Thriller"}},
	{"Alien", "The crew of a towing ship answers a distress call.", []string{"Horror", "Sci-Fi"}},
	{"Paddington", "A bear from Peru moves to London.", []string{"Family", "Comedy"}},
	{"Arrival", "A linguist learns to talk to visitors.", []string{"Sci-Fi", "Drama"}},
	{"Ronin", "Mercenaries chase a briefcase across France.", []string{"Action"}},
	{"Spirited Away", "A girl works in a bathhouse for spirits.", []string{"Animation", "Fantasy"}},
}

var seedTags = []string{"rewatch", "slow burn", "soundtrack", "date night", "underrated"}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill a store with demo users, posts, tags and reactions",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return fmt.Errorf("opening store: %w", err)
		}
		defer st.Close()

		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return fmt.Errorf("generating token key: %w", err)
		}
		tokens, err := auth.NewTokenService(key, time.Minute)
		if err != nil {
			return err
		}

		log := logger.Discard()
		validator := validation.New()
		processor := images.NewProcessor(images.NewMemoryStore(), 1<<20, log)

		authSvc := service.NewAuthService(st, tokens, nil, validator, log)
		postSvc := service.NewPostService(st, processor, events.NoopPublisher{}, validator, log)
		tagSvc := service.NewTagService(st, validator, log)
		userSvc := service.NewUserService(st, log)

		ctx := context.Background()
		rng := mathrand.New(mathrand.NewPCG(uint64(time.Now().UnixNano()), 0))
		suffix := time.Now().Format("150405")

		var userIDs, postIDs []string
		for n := range seedUsers {
			resp, err := authSvc.Register(ctx, service.RegisterRequest{
				Name:     fmt.Sprintf("Demo User %d", n+1),
				Email:    fmt.Sprintf("demo%d-%s@example.com", n+1, suffix),
				Password: "password",
			})
			if err != nil {
				return fmt.Errorf("registering user %d: %w", n+1, err)
			}
			userIDs = append(userIDs, resp.User.ID)

			for range seedPosts {
				movie := seedMovies[rng.IntN(len(seedMovies))]
				post, err := postSvc.Create(ctx, resp.User.ID, service.CreatePostRequest{
					MovieName: movie.name,
					Summary:   movie.summary,
					Genre:     movie.genre,
				})
				if err != nil {
					return fmt.Errorf("creating post: %w", err)
				}
				postIDs = append(postIDs, post.ID)
			}
		}

		if len(postIDs) == 0 {
			fmt.Println("Nothing to seed")
			return nil
		}

		for _, userID := range userIDs {
			for _, postID := range postIDs {
				switch rng.IntN(4) {
				case 0:
					if _, err := postSvc.React(ctx, postID, userID, domain.ReactionLike); err != nil {
						return err
					}
					if _, err := userSvc.AddToLikes(ctx, userID, postID); err != nil {
						return err
					}
				case 1:
					if _, err := postSvc.React(ctx, postID, userID, domain.ReactionUnlike); err != nil {
						return err
					}
				case 2:
					if _, err := userSvc.AddToBag(ctx, userID, postID); err != nil {
						return err
					}
				}
			}

			postID := postIDs[rng.IntN(len(postIDs))]
			tags, err := tagSvc.CreateTag(ctx, postID, userID, seedTags[rng.IntN(len(seedTags))])
			if err != nil {
				return fmt.Errorf("tagging post: %w", err)
			}
			other := userIDs[rng.IntN(len(userIDs))]
			if _, err := tagSvc.ReactToTag(ctx, postID, tags[0].ID, other, domain.ReactionLike); err != nil {
				return fmt.Errorf("liking tag: %w", err)
			}
		}

		fmt.Printf("Seeded %d users and %d posts\n", len(userIDs), len(postIDs))
		return nil
	},
}
