package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/KAsare1/Kodefx-blog/cmd/api"
	"github.com/KAsare1/Kodefx-blog/cmd/config"
	"github.com/KAsare1/Kodefx-blog/cmd/models"
	"github.com/KAsare1/Kodefx-blog/cmd/utils"
	"github.com/KAsare1/Kodefx-blog/db"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// openDB connects to the configured database. The returned func closes it.
var openDB = func(cfg config.Config) (*gorm.DB, func(), error) {
	DB, err := db.NewPSQLStorage(cfg)
	if err != nil {
		return nil, nil, err
	}
	return DB, func() {
		if err := db.Close(DB); err != nil {
			log.Printf("Error closing database: %v", err)
			return
		}
		log.Println("Database connection closed")
	}, nil
}

func withDB(fn func(cfg config.Config, DB *gorm.DB) error) error {
	cfg := config.Load()
	DB, closeDB, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("database initialization error: %w", err)
	}
	defer closeDB()
	return fn(cfg, DB)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "kodefx",
		Short:        "Kodefx blog server",
		Long:         "Kodefx is a small blogging site: posts, groups, comments and author subscriptions.",
		SilenceUsage: true,
		RunE:         runServe,
	}
	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newClearDBCmd(),
		newGroupCmd(),
		newUserCmd(),
	)
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	return withDB(func(cfg config.Config, DB *gorm.DB) error {
		log.Println("Connected to the database")

		rdb := db.ConnectRedis(cfg)
		if rdb != nil {
			defer rdb.Close()
			if err := rdb.Ping(cmd.Context()).Err(); err != nil {
				log.Printf("Redis at %s is not reachable yet: %v", cfg.RedisAddr, err)
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return api.NewApiServer(cfg, DB, rdb).Run(ctx)
	})
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables and the media directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(cfg config.Config, DB *gorm.DB) error {
				if err := db.Migrate(DB); err != nil {
					return fmt.Errorf("migration error: %w", err)
				}

				dir := filepath.Join(cfg.MediaRoot, utils.PostImageDir)
				if err := createDirectoryIfNotExist(dir); err != nil {
					return err
				}
				log.Printf("Directory %s created/verified", dir)
				log.Println("Migrations completed successfully")
				return nil
			})
		},
	}
}

func createDirectoryIfNotExist(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(path, 0755); err != nil {
			return fmt.Errorf("could not create directory %s: %w", path, err)
		}
	}
	return nil
}

func newClearDBCmd() *cobra.Command {
	var (
		tables []string
		yes    bool
	)
	cmd := &cobra.Command{
		Use:   "clear-db",
		Short: "Drop tables (all of them unless --tables is given)",
		Example: `  kodefx clear-db --yes
  kodefx clear-db --tables Comment,Follow`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				fmt.Fprint(cmd.OutOrStdout(), "Are you sure you want to clear the database? (yes/no): ")
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if strings.TrimSpace(answer) != "yes" {
					fmt.Fprintln(cmd.OutOrStdout(), "Database clearing cancelled.")
					return nil
				}
			}
			return withDB(func(_ config.Config, DB *gorm.DB) error {
				if err := db.ClearTables(DB, tables); err != nil {
					return fmt.Errorf("error clearing database: %w", err)
				}
				log.Println("Database cleared successfully")
				return nil
			})
		},
	}
	cmd.Flags().StringSliceVar(&tables, "tables", nil, "comma separated table names, e.g. Post,Comment")
	cmd.Flags().BoolVar(&yes, "yes", false, "skip the confirmation prompt")
	return cmd
}

type groupForm struct {
	Title       string `form:"title" validate:"required,max=200"`
	Slug        string `form:"slug" validate:"required,max=50,slug"`
	Description string `form:"description"`
}

func newGroupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Manage groups",
	}

	var form groupForm
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a group",
		RunE: func(cmd *cobra.Command, args []string) error {
			if errs := utils.ValidateForm(&form); errs.Any() {
				return formError(errs)
			}
			return withDB(func(_ config.Config, DB *gorm.DB) error {
				group := &models.Group{Title: form.Title, Slug: form.Slug, Description: form.Description}
				if err := db.NewStore(DB).CreateGroup(cmd.Context(), group); err != nil {
					if errors.Is(err, db.ErrDuplicate) {
						return fmt.Errorf("a group with slug %q already exists", form.Slug)
					}
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Group %q created with id %d\n", group.Slug, group.ID)
				return nil
			})
		},
	}
	create.Flags().StringVar(&form.Title, "title", "", "group title")
	create.Flags().StringVar(&form.Slug, "slug", "", "unique URL slug")
	create.Flags().StringVar(&form.Description, "description", "", "group description")

	var slug string
	remove := &cobra.Command{
		Use:   "delete",
		Short: "Delete a group; its posts are kept without a group",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(_ config.Config, DB *gorm.DB) error {
				store := db.NewStore(DB)
				group, err := store.GroupBySlug(cmd.Context(), slug)
				if err != nil {
					return err
				}
				if err := store.DeleteGroup(cmd.Context(), group.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Group %q deleted\n", slug)
				return nil
			})
		},
	}
	remove.Flags().StringVar(&slug, "slug", "", "slug of the group to delete")
	_ = remove.MarkFlagRequired("slug")

	cmd.AddCommand(create, remove)
	return cmd
}

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	var username string
	remove := &cobra.Command{
		Use:   "delete",
		Short: "Delete a user with their posts and comments",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(_ config.Config, DB *gorm.DB) error {
				store := db.NewStore(DB)
				user, err := store.UserByUsername(cmd.Context(), username)
				if err != nil {
					return err
				}
				if err := store.DeleteUser(cmd.Context(), user.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "User %q deleted\n", username)
				return nil
			})
		},
	}
	remove.Flags().StringVar(&username, "username", "", "username of the user to delete")
	_ = remove.MarkFlagRequired("username")

	cmd.AddCommand(remove)
	return cmd
}

func formError(errs utils.FormErrors) error {
	parts := make([]string, 0, len(errs))
	for field, msg := range errs {
		parts = append(parts, "--"+field+": "+msg)
	}
	sort.Strings(parts)
	return errors.New(strings.Join(parts, "; "))
}
