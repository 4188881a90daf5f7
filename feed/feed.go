// Package feed keeps the post list in sync with the shared store: publish,
// sorted listing, like toggling and comment appending.
package feed

import (
	"context"
	"encoding/json"
	"log"
	"sort"
	"strings"

	"github.com/gofrs/uuid/v5"

	"teamsync/identity"
	"teamsync/models"
	"teamsync/store"
	"teamsync/utils"
)

// Collection is the store collection holding posts, keyed by slot key.
const Collection = "posts"

type Engine struct {
	store store.Store
	id    *identity.Context
}

func NewEngine(st store.Store, id *identity.Context) *Engine {
	return &Engine{store: st, id: id}
}

// Publish validates the text and appends a fresh post. The store assigns the
// slot key; List rewrites post ids to that key so every later mutation
// addresses the stored record.
func (e *Engine) Publish(ctx context.Context, text string) (models.Post, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Post{}, models.ValidationError("post text cannot be empty")
	}

	user := e.id.Current()
	postID, err := uuid.NewV4()
	if err != nil {
		return models.Post{}, err
	}

	post := models.Post{
		ID:         postID.String(),
		Author:     user.Name,
		AuthorCode: user.Code,
		Text:       text,
		Timestamp:  utils.Timestamp(),
		Likes:      0,
		LikedBy:    []string{},
		Comments:   []models.Comment{},
	}

	if err := e.store.Append(ctx, Collection, post); err != nil {
		return models.Post{}, err
	}
	return post, nil
}

// List reads the whole collection and returns it sorted most recent first.
// An empty collection is an empty slice, not an error.
func (e *Engine) List(ctx context.Context) ([]models.Post, error) {
	snap, err := e.store.ReadAll(ctx, Collection)
	if err != nil {
		return nil, err
	}
	return decodePosts(snap), nil
}

func decodePosts(snap store.Snapshot) []models.Post {
	posts := make([]models.Post, 0, len(snap))
	for key, raw := range snap {
		var post models.Post
		if err := json.Unmarshal(raw, &post); err != nil {
			log.Printf("Skipping undecodable post %s: %v", key, err)
			continue
		}
		post.ID = key
		posts = append(posts, post)
	}

	// Descending by timestamp; slot key keeps the order stable on ties.
	sort.Slice(posts, func(i, j int) bool {
		ti := utils.ParseTimestamp(posts[i].Timestamp)
		tj := utils.ParseTimestamp(posts[j].Timestamp)
		if ti.Equal(tj) {
			return posts[i].ID > posts[j].ID
		}
		return ti.After(tj)
	})
	return posts
}

// ToggleLike adds the user's code to the post's likedBy set, or removes it
// if present. A vanished post is a silent no-op.
//
// This is a read-modify-write of the whole collection with no concurrency
// token: when two clients write concurrently the last full snapshot wins and
// the other mutation is dropped. Last-writer-wins is the store contract here,
// same as the rest of the system.
func (e *Engine) ToggleLike(ctx context.Context, postID, userCode string) error {
	snap, err := e.store.ReadAll(ctx, Collection)
	if err != nil {
		return err
	}

	raw, ok := snap[postID]
	if !ok {
		return nil
	}
	var post models.Post
	if err := json.Unmarshal(raw, &post); err != nil {
		return nil
	}

	liked := false
	kept := post.LikedBy[:0]
	for _, code := range post.LikedBy {
		if code == userCode {
			liked = true
			continue
		}
		kept = append(kept, code)
	}
	post.LikedBy = kept
	if !liked {
		post.LikedBy = append(post.LikedBy, userCode)
	}
	// Recomputed rather than incremented, so a drifted counter heals on the
	// next toggle.
	post.Likes = len(post.LikedBy)

	updated, err := json.Marshal(post)
	if err != nil {
		return err
	}
	snap[postID] = updated
	return e.store.WriteAll(ctx, Collection, snap)
}

// AppendComment appends a comment under the current identity. Empty text is
// a ValidationError; a vanished post is a silent no-op. Same whole-collection
// read-modify-write as ToggleLike.
func (e *Engine) AppendComment(ctx context.Context, postID, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.ValidationError("comment text cannot be empty")
	}

	snap, err := e.store.ReadAll(ctx, Collection)
	if err != nil {
		return err
	}

	raw, ok := snap[postID]
	if !ok {
		return nil
	}
	var post models.Post
	if err := json.Unmarshal(raw, &post); err != nil {
		return nil
	}

	post.Comments = append(post.Comments, models.Comment{
		Author:    e.id.Current().Name,
		Text:      text,
		Timestamp: utils.Timestamp(),
	})

	updated, err := json.Marshal(post)
	if err != nil {
		return err
	}
	snap[postID] = updated
	return e.store.WriteAll(ctx, Collection, snap)
}
