package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/ariebrainware/psych-practice/apiclient"
	"github.com/ariebrainware/psych-practice/binding"
	"github.com/ariebrainware/psych-practice/content"
	"github.com/ariebrainware/psych-practice/hook"
	"github.com/ariebrainware/psych-practice/model"
	"github.com/urfave/cli/v2"
)

type opener func(c *cli.Context) (*session, error)

func commands(open opener) []*cli.Command {
	run := func(fn func(c *cli.Context, s *session) error) cli.ActionFunc {
		return func(c *cli.Context) error {
			s, err := open(c)
			if err != nil {
				return err
			}
			return fn(c, s)
		}
	}

	return []*cli.Command{
		{
			Name:  "login",
			Usage: "sign in and keep the session token",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "email", Required: true},
				&cli.StringFlag{Name: "password", Usage: "defaults to $PRACTICE_PASSWORD"},
			},
			Action: run(login),
		},
		{
			Name:   "logout",
			Usage:  "forget the session token",
			Action: run(logout),
		},
		{
			Name:   "whoami",
			Usage:  "show who the stored token belongs to",
			Action: run(whoami),
		},
		{
			Name:   "services",
			Usage:  "list services",
			Action: run(listServices),
		},
		{
			Name:  "slots",
			Usage: "list free appointment times on a day",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "date", Usage: "YYYY-MM-DD, defaults to today"},
			},
			Action: run(listSlots),
		},
		{
			Name:  "contact",
			Usage: "send a message through the contact form",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "first-name", Required: true},
				&cli.StringFlag{Name: "last-name"},
				&cli.StringFlag{Name: "email", Required: true},
				&cli.StringFlag{Name: "phone"},
				&cli.StringFlag{Name: "subject"},
				&cli.StringFlag{Name: "message", Required: true},
			},
			Action: run(sendContact),
		},
		{
			Name:      "upload",
			Usage:     "upload an image",
			ArgsUsage: "FILE",
			Action:    run(uploadImage),
		},
		{
			Name:  "blog",
			Usage: "read and publish blog posts",
			Subcommands: []*cli.Command{
				{
					Name:  "list",
					Usage: "list published posts, or every post with --all",
					Flags: []cli.Flag{
						&cli.BoolFlag{Name: "all", Usage: "include drafts (staff only)"},
					},
					Action: run(listPosts),
				},
				{
					Name:      "show",
					Usage:     "print a post",
					ArgsUsage: "ID",
					Flags: []cli.Flag{
						&cli.BoolFlag{Name: "html", Usage: "render the body as HTML"},
					},
					Action: run(showPost),
				},
				{
					Name:      "publish",
					ArgsUsage: "ID",
					Action: run(func(c *cli.Context, s *session) error {
						return changePost(c, s, binding.PublishBlogPostForm(s.client))
					}),
				},
				{
					Name:      "unpublish",
					ArgsUsage: "ID",
					Action: run(func(c *cli.Context, s *session) error {
						return changePost(c, s, binding.UnpublishBlogPostForm(s.client))
					}),
				},
			},
		},
	}
}

// submit runs a form and turns a failed submission into an error.
func submit[T, R any](ctx context.Context, f *hook.Form[T, R], data T) (R, error) {
	defer f.Close()
	if !f.Submit(ctx, data) {
		var zero R
		return zero, errors.New(f.State().Error)
	}
	res, _ := f.Result()
	return res, nil
}

// load waits for the first state of a read.
func load[T any](ctx context.Context, r *hook.Resource[T]) (T, error) {
	defer r.Close()
	st, err := r.Wait(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	if st.Error != "" {
		var zero T
		return zero, errors.New(st.Error)
	}
	if st.Data == nil {
		var zero T
		return zero, nil
	}
	return *st.Data, nil
}

func requireArg(c *cli.Context, name string) (string, error) {
	arg := strings.TrimSpace(c.Args().First())
	if arg == "" {
		return "", fmt.Errorf("%s is required", name)
	}
	return arg, nil
}

func login(c *cli.Context, s *session) error {
	password := readPassword(c)
	if password == "" {
		return errors.New("password is required (--password or $PRACTICE_PASSWORD)")
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	resp, err := submit(ctx, binding.LoginForm(s.client), model.LoginRequest{Email: c.String("email"), Password: password})
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Logged in as %s (%s)\n", resp.User.Email, resp.User.Role)
	return nil
}

func logout(c *cli.Context, s *session) error {
	s.client.Logout()
	fmt.Fprintln(s.out, "Logged out")
	return nil
}

func whoami(c *cli.Context, s *session) error {
	claims, err := s.client.Claims()
	if errors.Is(err, apiclient.ErrNoToken) {
		fmt.Fprintln(s.out, "Not logged in")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%s (%s) id=%s\n", claims.Email, claims.Role, claims.Subject)
	if claims.Expired(time.Now()) {
		fmt.Fprintln(s.out, "token expired; log in again")
	} else if !claims.ExpiresAt.IsZero() {
		fmt.Fprintf(s.out, "expires %s\n", claims.ExpiresAt.Local().Format(time.RFC1123))
	}
	return nil
}

func listServices(c *cli.Context, s *session) error {
	ctx, cancel := withTimeout(c)
	defer cancel()
	services, err := load(ctx, binding.Services(ctx, s.client))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tMINUTES\tPRICE\tFEATURES")
	for _, svc := range services {
		price := "-"
		if svc.Price != nil {
			price = fmt.Sprintf("%.2f", *svc.Price)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", svc.ID, svc.Name, svc.Duration, price, strings.Join(svc.Features, ", "))
	}
	return w.Flush()
}

func listSlots(c *cli.Context, s *session) error {
	date := c.String("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	slots, err := load(ctx, binding.AvailableSlots(ctx, s.client, date).Resource)
	if err != nil {
		return err
	}
	if len(slots) == 0 {
		fmt.Fprintf(s.out, "No free slots on %s\n", date)
		return nil
	}
	fmt.Fprintf(s.out, "Free on %s: %s\n", date, strings.Join(slots, ", "))
	return nil
}

func sendContact(c *cli.Context, s *session) error {
	ctx, cancel := withTimeout(c)
	defer cancel()
	msg, err := submit(ctx, binding.ContactForm(s.client), model.ContactRequest{
		FirstName: c.String("first-name"),
		LastName:  c.String("last-name"),
		Email:     c.String("email"),
		Phone:     c.String("phone"),
		Subject:   c.String("subject"),
		Message:   c.String("message"),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Message sent (%s)\n", msg.ID)
	return nil
}

func uploadImage(c *cli.Context, s *session) error {
	path, err := requireArg(c, "FILE")
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	ctx, cancel := withTimeout(c)
	defer cancel()
	res, err := submit(ctx, binding.UploadImageForm(s.client), binding.ImageUpload{Filename: filepath.Base(path), Body: f})
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%s (%s, %d bytes)\n", res.URL, res.Mimetype, res.Size)
	return nil
}

func listPosts(c *cli.Context, s *session) error {
	ctx, cancel := withTimeout(c)
	defer cancel()
	read := binding.PublishedBlogPosts
	if c.Bool("all") {
		read = binding.BlogPosts
	}
	posts, err := load(ctx, read(ctx, s.client))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tCATEGORY\tTITLE")
	for _, p := range posts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, p.Status, p.Category, p.Title)
	}
	return w.Flush()
}

func showPost(c *cli.Context, s *session) error {
	id, err := requireArg(c, "ID")
	if err != nil {
		return err
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	post, err := load(ctx, binding.BlogPost(ctx, s.client, id).Resource)
	if err != nil {
		return err
	}

	if c.Bool("html") {
		fmt.Fprintln(s.out, content.RenderHTML(post.Content))
		return nil
	}
	fmt.Fprintf(s.out, "%s\n%s, %d min read\n\n", post.Title, post.Category, post.ReadTime)
	for _, b := range content.Parse(post.Content) {
		switch b.Kind {
		case content.KindImage:
			fmt.Fprintf(s.out, "[image: %s] %s\n\n", b.Alt, b.URL)
		case content.KindVideo:
			fmt.Fprintf(s.out, "[video: %s] %s\n\n", b.Provider, b.URL)
		default:
			fmt.Fprintf(s.out, "%s\n\n", b.Text)
		}
	}
	return nil
}

func changePost(c *cli.Context, s *session, form *hook.Form[string, model.BlogPost]) error {
	id, err := requireArg(c, "ID")
	if err != nil {
		form.Close()
		return err
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	post, err := submit(ctx, form, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%s is now %s\n", post.Title, post.Status)
	return nil
}
