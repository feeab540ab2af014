// Command recipectl drives the recipes API from a terminal.
//
//	RECIPES_TOKEN=... recipectl list
//	recipectl create -name Soup -description "Hot soup" -favourite
//	recipectl update -id <recipeId> -name "Soup v2"
//	recipectl delete -id <recipeId>
//	recipectl upload -id <recipeId> -file soup.jpg
//
// The API base URL comes from RECIPES_API (default http://localhost:8080).
package main

import (
	"alcyxob/recipe-app/internal/client"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"golang.org/x/oauth2"
)

const defaultAPI = "http://localhost:8080"

var errUsage = errors.New("usage: recipectl <list|create|update|delete|upload> [flags]")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Getenv, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "recipectl:", err)
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, getenv func(string) string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	token := getenv("RECIPES_TOKEN")
	if token == "" {
		return errors.New("RECIPES_TOKEN is not set")
	}
	baseURL := getenv("RECIPES_API")
	if baseURL == "" {
		baseURL = defaultAPI
	}
	c := client.New(baseURL, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))

	cmd, rest := args[0], args[1:]
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	id := fs.String("id", "", "recipe id")
	name := fs.String("name", "", "recipe name")
	description := fs.String("description", "", "recipe description")
	favourite := fs.Bool("favourite", false, "mark as favourite")
	file := fs.String("file", "", "image file to upload")
	if err := fs.Parse(rest); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	switch cmd {
	case "list":
		recipes, err := c.ListRecipes(ctx)
		if err != nil {
			return err
		}
		return printJSON(out, recipes)

	case "create":
		created, err := c.CreateRecipe(ctx, client.CreateRecipeRequest{Name: *name, Description: *description, IsFavourite: *favourite})
		if err != nil {
			return err
		}
		return printJSON(out, created)

	case "update":
		if *id == "" {
			return fmt.Errorf("%w: -id is required", errUsage)
		}
		return c.PatchRecipe(ctx, *id, client.UpdateRecipeRequest{Name: *name, Description: *description, IsFavourite: *favourite})

	case "delete":
		if *id == "" {
			return fmt.Errorf("%w: -id is required", errUsage)
		}
		return c.DeleteRecipe(ctx, *id)

	case "upload":
		if *id == "" || *file == "" {
			return fmt.Errorf("%w: -id and -file are required", errUsage)
		}
		f, err := os.Open(*file)
		if err != nil {
			return err
		}
		defer f.Close()
		return c.UploadAttachment(ctx, *id, f)
	}
	return errUsage
}

func printJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
