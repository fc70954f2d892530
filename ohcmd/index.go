package ohcmd

import (
	"go.brendoncarroll.net/star"
	"go.brendoncarroll.net/stdctx/logctx"

	"objhash.org/objhash"
	"objhash.org/objhash/ohindex"
)

var indexDir = star.NewDir(star.Metadata{
	Short: "deduplicate documents by fingerprint",
}, map[star.Symbol]star.Command{
	"add":  indexAdd,
	"get":  indexGet,
	"list": indexList,
})

var indexAdd = star.Command{
	Metadata: star.Metadata{
		Short: "add documents to the index, reporting duplicates",
	},
	Flags: append(hashFlags(), formatParam, DBParam),
	Pos:   []star.IParam{pathsParam},
	F: func(c star.Context) error {
		ctx, err := newContext(c)
		if err != nil {
			return err
		}
		h, err := newHasher(c)
		if err != nil {
			return err
		}
		db := DBParam.Load(c)
		defer db.Close()
		idx, err := ohindex.NewCached(ohindex.NewSQL(db), 1024)
		if err != nil {
			return err
		}
		paths, err := docPaths(pathsParam.LoadAll(c))
		if err != nil {
			return err
		}
		docs, err := loadDocs(ctx, c.StdIn, paths, formatParam.Load(c))
		if err != nil {
			return err
		}
		var dups int
		for i, doc := range docs {
			e, added, err := ohindex.Add(ctx, idx, h, paths[i], doc)
			if err != nil {
				return err
			}
			if added {
				c.Printf("added %s  %s\n", e.Key, paths[i])
			} else {
				dups++
				c.Printf("dup   %s  %s (first seen as %s)\n", e.Key, paths[i], e.Name)
			}
		}
		logctx.Infof(ctx, "indexed %d documents, %d duplicates", len(docs), dups)
		return nil
	},
}

var keyParam = star.Param[objhash.Fingerprint]{
	Name:  "key",
	Parse: objhash.ParseKey,
}

var indexGet = star.Command{
	Metadata: star.Metadata{
		Short: "show the document first seen with a fingerprint",
	},
	Flags: []star.IParam{DBParam},
	Pos:   []star.IParam{keyParam},
	F: func(c star.Context) error {
		db := DBParam.Load(c)
		defer db.Close()
		e, err := ohindex.Lookup(c.Context, ohindex.NewSQL(db), keyParam.Load(c))
		if err != nil {
			return err
		}
		c.Printf("%s  %s\n", e.Key, e.Name)
		return nil
	},
}

var indexList = star.Command{
	Metadata: star.Metadata{
		Short: "list the fingerprints in the index",
	},
	Flags: []star.IParam{DBParam},
	F: func(c star.Context) error {
		db := DBParam.Load(c)
		defer db.Close()
		return ohindex.NewSQL(db).List(c.Context, func(e ohindex.Entry) error {
			c.Printf("%s  %s\n", e.Key, e.Name)
			return nil
		})
	},
}
