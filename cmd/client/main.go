package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/pulsefeed/pulsefeed/internal/client"
	"github.com/pulsefeed/pulsefeed/internal/domain/post"
	"github.com/pulsefeed/pulsefeed/internal/domain/user"
)

const usage = `usage: pulsefeed-client <command> [flags]

commands:
  register        create an account and start a session
  login           authenticate and start a session
  logout          erase the local session
  whoami          show the logged-in user
  profile         show any user's public profile
  update-profile  change name/bio/profile picture
  post            publish a post
  feed            show the public feed, newest first
  my-posts        show your own posts
  delete-post     delete one of your posts

The session ({token, user}) persists in a JSON file between invocations.
Server base URL comes from PULSEFEED_URL (default http://localhost:8080).
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	baseURL := os.Getenv("PULSEFEED_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	sessionPath := os.Getenv("PULSEFEED_SESSION")
	if sessionPath == "" {
		var err error
		sessionPath, err = client.DefaultSessionPath()

		if err != nil {
			fatal(err)
		}
	}

	store := client.NewSessionStore(sessionPath)

	sess, loggedIn, err := store.Load()

	if err != nil {
		fatal(err)
	}

	app := &app{
		baseURL:  baseURL,
		store:    store,
		session:  sess,
		loggedIn: loggedIn,
	}

	if err := app.run(os.Args[1], os.Args[2:]); err != nil {
		var apiErr *client.APIError

		if errors.As(err, &apiErr) && apiErr.Unauthenticated() {
			fmt.Fprintln(os.Stderr, "Session expired or invalid. Please log in again.")
			os.Exit(1)
		}

		fatal(err)
	}
}

// app owns the session explicitly; commands receive it rather than reaching
// for a global.
type app struct {
	baseURL  string
	store    *client.SessionStore
	session  client.Session
	loggedIn bool
}

func (a *app) api() *client.API {
	return client.NewAPI(a.baseURL, a.session.Token)
}

func (a *app) run(cmd string, args []string) error {
	switch cmd {
	case "register":
		return a.register(args)
	case "login":
		return a.login(args)
	case "logout":
		return a.logout()
	case "whoami":
		return a.whoami()
	case "profile":
		return a.profile(args)
	case "update-profile":
		return a.updateProfile(args)
	case "post":
		return a.post(args)
	case "feed":
		return a.feed()
	case "my-posts":
		return a.myPosts()
	case "delete-post":
		return a.deletePost(args)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *app) register(args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	name := fs.String("name", "", "display name (min 3 chars)")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password (min 6 chars)")
	bio := fs.String("bio", "", "profile bio")
	pic := fs.String("pic", "", "profile picture URL")
	_ = fs.Parse(args)

	resp, err := a.api().Register(user.RegisterRequest{
		Name:       *name,
		Email:      *email,
		Password:   *password,
		Bio:        *bio,
		ProfilePic: *pic,
	})

	if err != nil {
		return err
	}

	if err := a.saveSession(resp); err != nil {
		return err
	}

	fmt.Printf("%s Logged in as %s <%s>\n", resp.Message, resp.User.Name, resp.User.Email)
	return nil
}

func (a *app) login(args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	_ = fs.Parse(args)

	resp, err := a.api().Login(user.LoginRequest{
		Email:    *email,
		Password: *password,
	})

	if err != nil {
		return err
	}

	if err := a.saveSession(resp); err != nil {
		return err
	}

	fmt.Printf("%s Logged in as %s <%s>\n", resp.Message, resp.User.Name, resp.User.Email)
	return nil
}

func (a *app) logout() error {
	if err := a.store.Clear(); err != nil {
		return err
	}

	fmt.Println("Logged out.")
	return nil
}

func (a *app) whoami() error {
	if err := a.requireSession(); err != nil {
		return err
	}

	u, err := a.api().Me()

	if err != nil {
		return err
	}

	printUser(u)
	return nil
}

func (a *app) profile(args []string) error {
	fs := flag.NewFlagSet("profile", flag.ExitOnError)
	id := fs.String("id", "", "user id")
	_ = fs.Parse(args)

	u, err := a.api().Profile(*id)

	if err != nil {
		return err
	}

	printUser(u)
	return nil
}

func (a *app) updateProfile(args []string) error {
	if err := a.requireSession(); err != nil {
		return err
	}

	fs := flag.NewFlagSet("update-profile", flag.ExitOnError)
	name := fs.String("name", "", "new display name")
	bio := fs.String("bio", "", "new bio")
	pic := fs.String("pic", "", "new profile picture URL")
	_ = fs.Parse(args)

	// only flags the user actually set go into the partial update
	var req user.UpdateProfileRequest

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			req.Name = name
		case "bio":
			req.Bio = bio
		case "pic":
			req.ProfilePic = pic
		}
	})

	if req.Empty() {
		return errors.New("nothing to update: pass -name, -bio or -pic")
	}

	u, err := a.api().UpdateProfile(req)

	if err != nil {
		return err
	}

	// token is unchanged, only the cached user moves
	a.session.User = u

	if err := a.store.Save(a.session); err != nil {
		return err
	}

	fmt.Println("Profile updated.")
	printUser(u)
	return nil
}

func (a *app) post(args []string) error {
	if err := a.requireSession(); err != nil {
		return err
	}

	fs := flag.NewFlagSet("post", flag.ExitOnError)
	text := fs.String("text", "", "post text")
	image := fs.String("image", "", "image URL")
	_ = fs.Parse(args)

	p, err := a.api().CreatePost(post.CreatePostRequest{
		Text:  text,
		Image: *image,
	})

	if err != nil {
		return err
	}

	fmt.Printf("Posted %s\n", p.ID)
	return nil
}

func (a *app) feed() error {
	posts, err := a.api().Feed()

	if err != nil {
		return err
	}

	printPosts(posts)
	return nil
}

func (a *app) myPosts() error {
	if err := a.requireSession(); err != nil {
		return err
	}

	posts, err := a.api().MyPosts()

	if err != nil {
		return err
	}

	printPosts(posts)
	return nil
}

func (a *app) deletePost(args []string) error {
	if err := a.requireSession(); err != nil {
		return err
	}

	fs := flag.NewFlagSet("delete-post", flag.ExitOnError)
	id := fs.String("id", "", "post id")
	_ = fs.Parse(args)

	if err := a.api().DeletePost(*id); err != nil {
		return err
	}

	fmt.Println("Post deleted.")
	return nil
}

func (a *app) saveSession(resp client.AuthResponse) error {
	a.session = client.Session{Token: resp.Token, User: resp.User}
	a.loggedIn = true

	return a.store.Save(a.session)
}

func (a *app) requireSession() error {
	if !a.loggedIn {
		return errors.New("not logged in: run login or register first")
	}

	return nil
}

func printUser(u user.User) {
	fmt.Printf("%s <%s>\n", u.Name, u.Email)

	if u.Bio != "" {
		fmt.Printf("  bio: %s\n", u.Bio)
	}

	if u.ProfilePic != "" {
		fmt.Printf("  pic: %s\n", u.ProfilePic)
	}

	fmt.Printf("  id:  %s\n", u.ID)
}

func printPosts(posts []post.Post) {
	if len(posts) == 0 {
		fmt.Println("No posts yet.")
		return
	}

	for _, p := range posts {
		fmt.Printf("%s  %s (%s)\n", p.CreatedAt.Local().Format("2006-01-02 15:04"), p.Author.Name, p.ID)
		fmt.Printf("  %s\n", p.Text)

		if p.Image != "" {
			fmt.Printf("  image: %s\n", p.Image)
		}
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
