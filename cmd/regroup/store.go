package main

import (
	"context"
	"fmt"

	"github.com/golang/glog"
	"github.com/spf13/viper"

	"github.com/fwojciec/regroup"
	"github.com/fwojciec/regroup/memdoc"
	"github.com/fwojciec/regroup/redisstore"
)

// openDocument loads the configured document, wiring in an external record
// registry when one is configured. The returned closer releases the
// registry client and must be called once the document is no longer used.
func openDocument(ctx context.Context) (*memdoc.Document, func(), error) {
	var opts []memdoc.Option
	closer := func() {}

	switch registry := viper.GetString("registry"); registry {
	case "", "document":
	case "redis":
		url := viper.GetString("redis_url")
		if url == "" {
			return nil, nil, fmt.Errorf("registry %q requires --redis-url or REGROUP_REDIS_URL", registry)
		}
		store, err := redisstore.Open(ctx, url)
		if err != nil {
			return nil, nil, fmt.Errorf("open redis registry: %w", err)
		}
		glog.V(1).Infof("using redis registry at %s", url)
		opts = append(opts, memdoc.WithRecordStore(store))
		closer = func() {
			if err := store.Close(); err != nil {
				glog.Warningf("close redis registry: %v", err)
			}
		}
	default:
		return nil, nil, fmt.Errorf("unknown registry %q (want document or redis)", registry)
	}

	path := viper.GetString("document")
	doc, err := memdoc.Open(path, opts...)
	if err != nil {
		closer()
		return nil, nil, fmt.Errorf("open document %s: %w", path, err)
	}
	return doc, closer, nil
}

// mutate opens the configured document, runs fn in one unit of work, and
// saves the file when the unit of work commits. A failing fn aborts before
// anything is written to disk.
func mutate(ctx context.Context, fn func(tx *memdoc.Tx) error) error {
	doc, closer, err := openDocument(ctx)
	if err != nil {
		return err
	}
	defer closer()

	if err := doc.Edit(ctx, fn); err != nil {
		return err
	}
	path := viper.GetString("document")
	if err := memdoc.Save(path, doc); err != nil {
		return fmt.Errorf("save document %s: %w", path, err)
	}
	glog.V(1).Infof("saved document %s", path)
	return nil
}

// view opens the configured document and runs fn against a snapshot.
func view(ctx context.Context, fn func(tx *memdoc.Tx) error) error {
	doc, closer, err := openDocument(ctx)
	if err != nil {
		return err
	}
	defer closer()
	return doc.Read(ctx, fn)
}

// logEvent reports session lifecycle events to the log.
func logEvent(ev regroup.Event) {
	switch e := ev.(type) {
	case regroup.SessionStarted:
		glog.Infof("session %q started with %d member(s)", e.TypeName, len(e.Members))
	case regroup.ElementsAdded:
		glog.Infof("session %q: added %d element(s)", e.TypeName, len(e.IDs))
	case regroup.ElementRemoved:
		glog.Infof("session %q: removed element %s", e.TypeName, e.ID)
	case regroup.SessionFinished:
		glog.Infof("session %q finished as instance %s, %d sibling(s) migrated", e.TypeName, e.Instance, e.Siblings)
	case regroup.SessionPurged:
		if e.TypeDeleted {
			glog.Warningf("session %q purged, dangling type definition removed", e.TypeName)
		} else {
			glog.Infof("session %q purged", e.TypeName)
		}
	}
}
