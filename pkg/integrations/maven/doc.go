// Package maven queries the Maven Central search index.
//
// # Usage
//
//	idx := maven.NewClient(client, "", nil)
//	found, err := idx.Search(ctx, "commons-io", "2.4", "sources")
//	if err != nil {
//	    return err
//	}
//	c, err := maven.Unique(found)
//	switch {
//	case errors.Is(err, maven.ErrAmbiguous):
//	    // several artifacts share the name and version
//	case errors.Is(err, integrations.ErrNotFound):
//	    // nothing published under that name
//	}
//
// # Queries
//
// [Client.Search] matches artifact id and version exactly (a:"..." AND
// v:"...") against the gav core, adding l:"classifier" when a classifier
// is given. [Client.FindPackage] searches by fully qualified class or
// package name (fc:"...").
//
// Responses are cached through the underlying [integrations.Client].
package maven
