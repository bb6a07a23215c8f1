// Command ripplectl is a terminal client for the Ripple API. It keeps one
// session on disk; when the server rejects that session the token is purged
// and the user is asked to log in again.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/ripplefeed/ripple/internal/client"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "ripplectl: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		usage()
		return nil
	}

	session, err := client.NewSession(client.NewFileStore(sessionPath()))
	if err != nil {
		return err
	}
	api := client.New(serverURL(), session)
	ctx := context.Background()

	switch args[0] {
	case "signup":
		return signup(ctx, api)
	case "login":
		return login(ctx, api)
	case "logout":
		if err := api.Logout(); err != nil {
			return err
		}
		fmt.Println("Logged out.")
		return nil
	case "me":
		return guard(func() error { return me(ctx, api) })
	case "feed":
		return guard(func() error { return feed(ctx, api) })
	case "post":
		return guard(func() error { return post(ctx, api, args[1:]) })
	case "comment":
		return guard(func() error { return comment(ctx, api, args[1:]) })
	default:
		usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func usage() {
	fmt.Println(`Usage: ripplectl <command>

Commands:
  signup            register a new account
  login             authenticate and store the session
  logout            discard the stored session
  me                show the authenticated profile
  feed              show the post feed with comments
  post <title> <body> [image]   publish a post
  comment <postId> <content>    comment on a post`)
}

// guard translates the session sentinels into user-facing guidance. After a
// purge the next protected command fails fast here, without a request,
// until a new login succeeds.
func guard(fn func() error) error {
	err := fn()
	switch {
	case errors.Is(err, client.ErrSessionExpired):
		return errors.New("session expired, please run 'ripplectl login'")
	case errors.Is(err, client.ErrNotAuthenticated):
		return errors.New("not logged in, please run 'ripplectl login'")
	default:
		return err
	}
}

func signup(ctx context.Context, api *client.Client) error {
	reader := bufio.NewReader(os.Stdin)
	form := client.SignupForm{}
	var err error
	if form.Name, err = prompt(reader, "First name"); err != nil {
		return err
	}
	if form.Lastname, err = prompt(reader, "Last name"); err != nil {
		return err
	}
	if form.Username, err = prompt(reader, "Username"); err != nil {
		return err
	}
	if form.Email, err = prompt(reader, "Email"); err != nil {
		return err
	}
	if form.BirthDate, err = prompt(reader, "Birth date (YYYY-MM-DD)"); err != nil {
		return err
	}
	if form.Password, err = promptPassword(); err != nil {
		return err
	}

	user, err := api.Signup(ctx, form)
	if err != nil {
		return err
	}
	fmt.Printf("Welcome, @%s!\n", user.Username)
	return nil
}

func login(ctx context.Context, api *client.Client) error {
	reader := bufio.NewReader(os.Stdin)
	email, err := prompt(reader, "Email")
	if err != nil {
		return err
	}
	password, err := promptPassword()
	if err != nil {
		return err
	}

	user, err := api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	fmt.Printf("Welcome back, @%s!\n", user.Username)
	return nil
}

func me(ctx context.Context, api *client.Client) error {
	user, err := api.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("@%s — %s %s <%s>, born %s\n",
		user.Username, user.Name, user.Lastname, user.Email, user.BirthDate)
	return nil
}

func feed(ctx context.Context, api *client.Client) error {
	posts, err := api.FeedWithComments(ctx)
	if err != nil {
		return err
	}
	if len(posts) == 0 {
		fmt.Println("No posts yet. Create one!")
		return nil
	}
	for _, p := range posts {
		author := "unknown"
		if p.Author != nil {
			author = "@" + p.Author.Username
		}
		fmt.Printf("#%d %s (by %s)\n", p.ID, p.Title, author)
		fmt.Printf("    %s\n", p.Body)
		if p.Image != nil {
			fmt.Printf("    [image: %s]\n", *p.Image)
		}
		for _, c := range p.Comments {
			who := "unknown"
			if c.Author != nil {
				who = "@" + c.Author.Username
			}
			fmt.Printf("    > %s: %s\n", who, c.Content)
		}
	}
	return nil
}

func post(ctx context.Context, api *client.Client, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: ripplectl post <title> <body> [image]")
	}

	var image *os.File
	imageName := ""
	if len(args) > 2 {
		f, err := os.Open(args[2])
		if err != nil {
			return err
		}
		defer func() {
			_ = f.Close()
		}()
		image = f
		imageName = args[2]
	}

	var reader io.Reader
	if image != nil {
		reader = image
	}

	created, err := api.CreatePost(ctx, args[0], args[1], reader, imageName)
	if err != nil {
		return err
	}
	fmt.Printf("Posted #%d.\n", created.ID)
	return nil
}

func comment(ctx context.Context, api *client.Client, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: ripplectl comment <postId> <content>")
	}
	postID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid post id %q", args[0])
	}

	created, err := api.AddComment(ctx, postID, args[1])
	if err != nil {
		return err
	}
	fmt.Printf("Commented on post #%d.\n", created.PostID)
	return nil
}

func prompt(reader *bufio.Reader, label string) (string, error) {
	fmt.Printf("%s: ", label)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func promptPassword() (string, error) {
	fmt.Print("Password: ")
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

func serverURL() string {
	if url := os.Getenv("RIPPLE_URL"); url != "" {
		return url
	}
	return "http://localhost:8080"
}

func sessionPath() string {
	if path := os.Getenv("RIPPLE_SESSION"); path != "" {
		return path
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "ripple", "session.json")
}
