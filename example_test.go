package folio_test

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aretw0/folio"
	"github.com/aretw0/folio/pkg/core"
)

// Example_basic seeds an empty directory store and lists it in canonical order.
func Example_basic() {
	tmpDir, err := os.MkdirTemp("", "folio-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	seed := core.BootstrapFunc(func(ctx context.Context) ([]core.Metadata, error) {
		return []core.Metadata{
			{"title": "Older", "publishedOn": "2015-02-17"},
			{"title": "Draft", "publishedOn": nil},
			{"title": "Newer", "publishedOn": "2016-08-03"},
		}, nil
	})

	svc, err := folio.New(tmpDir, folio.WithBootstrap(seed))
	if err != nil {
		log.Fatal(err)
	}

	if err := svc.FetchAll(context.Background(), nil); err != nil {
		log.Fatal(err)
	}
	for _, a := range svc.Collection().All() {
		fmt.Println(a.Title)
	}
	// Output:
	// Newer
	// Older
	// Draft
}

// ExampleService_Update edits a stored article.
func ExampleService_Update() {
	tmpDir, err := os.MkdirTemp("", "folio-update-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	svc, err := folio.New(tmpDir)
	if err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()

	a := core.NewArticle(core.Metadata{"title": "Hello", "publishedOn": "2020-01-01"})
	if err := svc.Insert(ctx, a, nil); err != nil {
		log.Fatal(err)
	}

	a.Title = "Hello, again"
	if err := svc.Update(ctx, a, func() { fmt.Println("updated", a.ID) }); err != nil {
		log.Fatal(err)
	}
	// Output:
	// updated 1
}
