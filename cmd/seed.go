package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/theleywin/talentnest/src/models"
	"github.com/theleywin/talentnest/src/store"
)

const seedPassword = "password123"

func seedCommand() *cobra.Command {
	var count, posts int

	command := &cobra.Command{
		Use:   "seed",
		Short: "Fill the database with fake users, connections and posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			_, st, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			if err := st.Migrate(ctx); err != nil {
				return err
			}
			return seed(ctx, st, count, posts)
		},
	}

	command.Flags().IntVarP(&count, "count", "n", 10, "number of users")
	command.Flags().IntVarP(&posts, "posts", "m", 2, "posts per user")

	return command
}

// seed creates count users in a ring of connections, each with perUser posts
func seed(ctx context.Context, st store.Store, count, perUser int) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	users := make([]*models.User, 0, count)
	for i := 0; i < count; i++ {
		first, last := gofakeit.FirstName(), gofakeit.LastName()
		username := fmt.Sprintf("%s.%s%d", strings.ToLower(first), strings.ToLower(last), gofakeit.Number(100, 999))

		user := &models.User{
			Name:     first + " " + last,
			Username: username,
			Email:    username + "@" + gofakeit.DomainName(),
			Password: string(hash),
			Headline: gofakeit.JobTitle() + " at " + gofakeit.Company(),
			About:    gofakeit.Sentence(12),
			Location: gofakeit.City() + ", " + gofakeit.Country(),
			Skills:   []string{gofakeit.BuzzWord(), gofakeit.HackerNoun(), gofakeit.ProgrammingLanguage()},
		}
		if err := st.CreateUser(ctx, user); err != nil {
			if errors.Is(err, store.ErrDuplicateKey) {
				logrus.WithField("username", username).Warn("skipping duplicate seed user")
				continue
			}
			return err
		}
		users = append(users, user)

		for j := 0; j < perUser; j++ {
			post := &models.Post{Author: user.Id, Content: gofakeit.Paragraph(1, 3, 12, " ")}
			if err := st.CreatePost(ctx, post); err != nil {
				return err
			}
		}
	}

	if len(users) > 2 {
		for i, user := range users {
			next := users[(i+1)%len(users)]
			if err := st.AddConnection(ctx, user.Id, next.Id); err != nil {
				return err
			}
			if err := st.AddConnection(ctx, next.Id, user.Id); err != nil {
				return err
			}
		}
	}

	logrus.WithFields(logrus.Fields{
		"users":    len(users),
		"posts":    len(users) * perUser,
		"password": seedPassword,
	}).Info("seed complete")
	return nil
}
