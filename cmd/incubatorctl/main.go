package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"incubator/pkg/client"
	"incubator/pkg/events"
)

const defaultAPI = "http://localhost:8080/api"

type cli struct {
	out     io.Writer
	storage client.TokenStorage
	api     *client.APIClient
	store   *client.AuthStore
}

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	baseURL := os.Getenv("INCUBATOR_API")
	if baseURL == "" {
		baseURL = defaultAPI
	}
	path := os.Getenv("INCUBATOR_TOKEN_FILE")
	if path == "" {
		p, err := client.DefaultTokenPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		path = p
	}

	c := newCLI(os.Stdout, baseURL, client.NewFileStorage(path))
	if err := c.run(context.Background(), os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newCLI(out io.Writer, baseURL string, storage client.TokenStorage) *cli {
	return &cli{
		out:     out,
		storage: storage,
		api:     client.NewAPIClient(baseURL, storage),
		store:   client.NewAuthStore(storage),
	}
}

func (c *cli) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "login":
		return c.login(ctx, args)
	case "logout":
		return c.logout(ctx)
	case "whoami":
		return c.whoami()
	case "register":
		return c.register(ctx, args)
	case "startup":
		return c.startup(ctx)
	case "events":
		return c.events(ctx)
	case "help":
		printUsage(c.out)
		return nil
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

func (c *cli) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	admin := fs.Bool("admin", false, "sign in as admin")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || *password == "" {
		return errors.New("email and password are required")
	}

	login := c.api.LoginFounder
	if *admin {
		login = c.api.LoginAdmin
	}
	res, err := login(ctx, *email, *password)
	if err != nil {
		return err
	}
	if err := c.store.Login(res.AccessToken); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Signed in as %s\n", res.Email)
	return nil
}

func (c *cli) logout(ctx context.Context) error {
	if c.store.State().IsAuthenticated {
		if err := c.api.Logout(ctx); err != nil {
			fmt.Fprintf(c.out, "server logout failed: %v\n", err)
		}
	}
	if err := c.store.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Signed out")
	return nil
}

func (c *cli) whoami() error {
	st := c.store.State()
	if !st.IsAuthenticated {
		fmt.Fprintln(c.out, "Not signed in")
		return nil
	}
	role := "founder"
	if st.IsAdmin {
		role = "admin"
	}
	fmt.Fprintf(c.out, "%s (%s)\n", st.Email, role)
	return nil
}

// wizardFile is the on-disk form of the four registration steps.
type wizardFile struct {
	Step1 client.Step1 `json:"step1"`
	Step2 client.Step2 `json:"step2"`
	Step3 client.Step3 `json:"step3"`
	Step4 client.Step4 `json:"step4"`
}

func (c *cli) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	file := fs.String("file", "", "JSON file with step1..step4")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		return errors.New("-file is required")
	}

	raw, err := os.ReadFile(*file)
	if err != nil {
		return err
	}
	var wf wizardFile
	if err := json.Unmarshal(raw, &wf); err != nil {
		return fmt.Errorf("parse %s: %w", *file, err)
	}

	w := client.NewWizard()
	w.Step1, w.Step2, w.Step3, w.Step4 = wf.Step1, wf.Step2, wf.Step3, wf.Step4
	for w.Current() < client.LastStep {
		if err := w.Next(); err != nil {
			return fmt.Errorf("step %d: %w", w.Current(), err)
		}
	}

	res, err := w.Submit(ctx, c.api)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Registered %s (%s). %s\n", res.Startup.Name, res.Founder.Email, res.Founder.Message)
	return nil
}

func (c *cli) startup(ctx context.Context) error {
	if d := client.Guard(c.store.State(), client.RoleStartup); !d.Allow {
		return fmt.Errorf("not allowed, sign in as a founder (redirect %s)", d.Redirect)
	}
	p, err := c.api.CurrentStartup(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\t%s\n", p.UserID)
	fmt.Fprintf(tw, "NAME\t%s\n", p.Name)
	fmt.Fprintf(tw, "SECTOR\t%s\n", p.Sector)
	fmt.Fprintf(tw, "APPROVED\t%t\n", p.IsApproved)
	return tw.Flush()
}

func (c *cli) events(ctx context.Context) error {
	var list []events.Event
	if err := c.api.Get(ctx, "/events", &list); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDATE")
	for _, e := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", e.ID, e.Name, e.Date.Format("2006-01-02"))
	}
	return tw.Flush()
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `Usage: incubatorctl <command> [flags]

Commands:
  login -email E -password P [-admin]   sign in and store the access token
  logout                                revoke and forget the access token
  whoami                                show the signed-in account
  register -file wizard.json            validate and submit a startup registration
  startup                               show the signed-in founder's startup
  events                                list events

Environment:
  INCUBATOR_API         API base URL (default http://localhost:8080/api)
  INCUBATOR_TOKEN_FILE  token file (default ~/.incubator/token)`)
}
