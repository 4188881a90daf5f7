package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"teamsync/database"
	"teamsync/handlers"
	"teamsync/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment defaults")
	}

	st, cleanup, err := openStore()
	if err != nil {
		log.Fatalf("Store initialization failed: %v", err)
	}
	defer cleanup()

	handlers.Init(st)

	http.Handle("/static/", http.StripPrefix("/static", http.FileServer(http.Dir("./static"))))
	http.HandleFunc("/show_posts", handlers.ShowPosts)
	http.HandleFunc("/post_submit", handlers.PostSubmit)
	http.HandleFunc("/comment_submit", handlers.CommentSubmit)
	http.HandleFunc("/interact", handlers.HandleInteract)
	http.HandleFunc("/search_members", handlers.SearchMembers)
	http.HandleFunc("/show_team", handlers.ShowTeam)
	http.HandleFunc("/match_submit", handlers.MatchSubmit)
	http.HandleFunc("/login", handlers.LoginHandler)
	http.HandleFunc("/check-session", handlers.CheckSessionHandler)
	http.HandleFunc("/logout", handlers.LogoutHandler)
	http.HandleFunc("/register", handlers.RegisterHandler)
	http.HandleFunc("/ws", handlers.HandleConnections)

	addr := getenv("ADDR", ":4422")
	log.Printf("http://localhost%s/", addr)
	log.Fatal(http.ListenAndServe(addr, nil))
}

func openStore() (store.Store, func(), error) {
	switch backend := getenv("STORE_BACKEND", "sqlite"); backend {
	case "sqlite":
		if err := database.InitDB(getenv("SQLITE_PATH", "./teamsync.db")); err != nil {
			return nil, nil, err
		}
		return store.NewSQLiteStore(), func() { database.DB.Close() }, nil
	case "mongo":
		ctx := context.Background()
		st, err := store.NewMongoStore(ctx, getenv("MONGO_URI", "mongodb://localhost:27017"), getenv("MONGO_DB", "teamsync"))
		if err != nil {
			return nil, nil, err
		}
		return st, func() { st.Close(ctx) }, nil
	case "memory":
		return store.NewMemoryStore(), func() {}, nil
	default:
		log.Fatalf("Unknown STORE_BACKEND %q", backend)
		return nil, nil, nil
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
