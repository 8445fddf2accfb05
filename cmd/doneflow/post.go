package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/doneflow/doneflow"
	"github.com/doneflow/doneflow/pkg/agency"
)

var (
	postID        string
	postTitle     string
	postContent   string
	postImage     string
	postClient    string
	postPlatforms []string
	postDate      string
	postStatus    string
	postJSON      bool
	postYAML      bool
)

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Manage scheduled posts",
}

var postAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create or update a post",
	Run: func(cmd *cobra.Command, args []string) {
		service, owner := newAgencyService()

		id := postID
		if id == "" {
			id = uuid.NewString()
		}
		post := agency.Post{
			ID:            id,
			ClientID:      postClient,
			Title:         postTitle,
			Content:       postContent,
			ScheduledDate: postDate,
			Status:        agency.Status(postStatus),
		}
		for _, p := range postPlatforms {
			post.Platforms = append(post.Platforms, agency.Platform(p))
		}
		if postImage != "" {
			data, err := os.ReadFile(postImage)
			if err != nil {
				fatal("Failed to read image", err)
			}
			post.Image = "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)
		}

		err := service.SavePost(context.Background(), owner, post)
		if errors.Is(err, doneflow.ErrCapacityExceeded) {
			fatal("Storage is full", fmt.Errorf("remove old posts or raise the capacity: %w", err))
		}
		if err != nil {
			fatal("Failed to save post", err)
		}
		fmt.Printf("Post '%s' saved (%s).\n", post.Title, post.ID)
	},
}

var postListCmd = &cobra.Command{
	Use:   "list",
	Short: "List posts",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		service, owner := newAgencyService()

		posts, err := service.Posts(context.Background(), owner)
		if err != nil {
			fatal("Failed to list posts", err)
		}

		if postJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(posts); err != nil {
				fatal("Failed to encode JSON", err)
			}
			return
		}
		if postYAML {
			data, err := yaml.Marshal(posts)
			if err != nil {
				fatal("Failed to encode YAML", err)
			}
			os.Stdout.Write(data)
			return
		}

		for _, p := range posts {
			marker := " "
			if p.Image != "" {
				marker = "*"
			}
			fmt.Printf("%s %s [%s] %s\n", marker, p.ID, p.Status, p.Title)
		}
	},
}

var postRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a post",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		service, owner := newAgencyService()

		if err := service.DeletePost(context.Background(), owner, args[0]); err != nil {
			fatal("Failed to remove post", err)
		}
		fmt.Printf("Post '%s' removed.\n", args[0])
	},
}

func init() {
	rootCmd.AddCommand(postCmd)
	postCmd.AddCommand(postAddCmd, postListCmd, postRemoveCmd)

	postAddCmd.Flags().StringVar(&postID, "id", "", "Post ID (generated when empty)")
	postAddCmd.Flags().StringVar(&postTitle, "title", "", "Post title")
	postAddCmd.Flags().StringVar(&postContent, "content", "", "Caption text")
	postAddCmd.Flags().StringVar(&postImage, "image", "", "Path to an image file to embed")
	postAddCmd.Flags().StringVar(&postClient, "client", "", "Client ID this post belongs to")
	postAddCmd.Flags().StringSliceVar(&postPlatforms, "platforms", nil, "Target platforms")
	postAddCmd.Flags().StringVar(&postDate, "date", "", "Scheduled date (ISO 8601)")
	postAddCmd.Flags().StringVar(&postStatus, "status", string(agency.StatusDraft), "Post status")
	postAddCmd.MarkFlagRequired("title")

	postListCmd.Flags().BoolVar(&postJSON, "json", false, "Output in JSON format")
	postListCmd.Flags().BoolVar(&postYAML, "yaml", false, "Output in YAML format")
}
