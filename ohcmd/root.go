// package ohcmd implements the objhash command line tool.
package ohcmd

import (
	"context"
	"strconv"

	"github.com/jmoiron/sqlx"
	"go.brendoncarroll.net/star"
	"go.brendoncarroll.net/stdctx/logctx"
	"go.uber.org/zap"

	"objhash.org/objhash"
	"objhash.org/objhash/ohdecode"
	"objhash.org/objhash/ohdigest"
	"objhash.org/objhash/ohindex"
)

func Root() star.Command {
	return root
}

var root = star.NewDir(star.Metadata{
	Short: "deterministic fingerprints of structured documents",
}, map[star.Symbol]star.Command{
	"hash":  hashCmd,
	"canon": canonCmd,
	"algos": algosCmd,
	"index": indexDir,
})

var algosCmd = star.Command{
	Metadata: star.Metadata{
		Short: "list the supported algorithms",
	},
	F: func(c star.Context) error {
		for _, name := range ohdigest.Default.Algorithms() {
			c.Printf("%s\n", name)
		}
		c.Printf("%s\n", ohdigest.Passthrough)
		return nil
	},
}

var canonCmd = star.Command{
	Metadata: star.Metadata{
		Short: "print the canonical stream of a document",
	},
	Flags: append(hashFlags(), formatParam),
	Pos:   []star.IParam{pathParam},
	F: func(c star.Context) error {
		h, err := newHasher(c, objhash.WithAlgorithm(ohdigest.Passthrough))
		if err != nil {
			return err
		}
		v, err := loadDoc(c.StdIn, pathParam.Load(c), formatParam.Load(c))
		if err != nil {
			return err
		}
		if err := h.WriteCanonical(c.StdOut, v); err != nil {
			return err
		}
		c.Printf("\n")
		return nil
	},
}

var (
	algoParam = star.Param[string]{
		Name:    "algo",
		Default: star.Ptr(objhash.DefaultAlgorithm),
		Parse:   star.ParseString,
	}
	encParam = star.Param[ohdigest.Encoding]{
		Name:    "enc",
		Default: star.Ptr(string(objhash.DefaultEncoding)),
		Parse: func(x string) (ohdigest.Encoding, error) {
			return ohdigest.Encoding(x), nil
		},
	}
	keysParam          = boolParam("keys")
	orderedParam       = boolParam("ordered")
	ignoreUnknownParam = boolParam("ignore-unknown")
	respectTypeParam   = boolParam("respect-type")
	verboseParam       = boolParam("v")

	formatParam = star.Param[ohdecode.Format]{
		Name:    "format",
		Default: star.Ptr(""),
		Parse: func(x string) (ohdecode.Format, error) {
			if x == "" {
				return "", nil
			}
			return ohdecode.ParseFormat(x)
		},
	}
	pathParam = star.Param[string]{
		Name:  "path",
		Parse: star.ParseString,
	}
	pathsParam = star.Param[string]{
		Name:     "paths",
		Repeated: true,
		Parse:    star.ParseString,
	}
	DBParam = star.Param[*sqlx.DB]{
		Name:    "db",
		Default: star.Ptr("objhash.db"),
		Parse: func(x string) (*sqlx.DB, error) {
			return ohindex.OpenDB(context.Background(), x)
		},
	}
)

func boolParam(name star.Symbol) star.Param[bool] {
	return star.Param[bool]{
		Name:    name,
		Default: star.Ptr("false"),
		Parse:   strconv.ParseBool,
	}
}

// hashFlags are the flags which control hashing
func hashFlags() []star.IParam {
	return []star.IParam{
		algoParam, encParam,
		keysParam, orderedParam, ignoreUnknownParam, respectTypeParam,
		verboseParam,
	}
}

// newHasher creates a Hasher from the hashing flags.
// extra options are applied after the flags.
func newHasher(c star.Context, extra ...objhash.Option) (*objhash.Hasher, error) {
	opts := []objhash.Option{
		objhash.WithAlgorithm(algoParam.Load(c)),
		objhash.WithEncoding(encParam.Load(c)),
	}
	if keysParam.Load(c) {
		opts = append(opts, objhash.ExcludeValues())
	}
	if orderedParam.Load(c) {
		opts = append(opts, objhash.OrderedArrays())
	}
	if ignoreUnknownParam.Load(c) {
		opts = append(opts, objhash.IgnoreUnknownTypes())
	}
	if respectTypeParam.Load(c) {
		opts = append(opts, objhash.RespectType())
	}
	return objhash.New(append(opts, extra...)...)
}

// newContext returns the context for a command, with a logger attached.
func newContext(c star.Context) (context.Context, error) {
	cfg := zap.NewProductionConfig()
	if verboseParam.Load(c) {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logctx.NewContext(c.Context, l), nil
}
