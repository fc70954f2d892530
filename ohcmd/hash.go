package ohcmd

import (
	"context"
	"errors"
	"io"
	"runtime"

	"go.brendoncarroll.net/star"
	"go.brendoncarroll.net/stdctx/logctx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"objhash.org/objhash"
	"objhash.org/objhash/ohdecode"
	"objhash.org/objhash/ohvalue"
)

var hashCmd = star.Command{
	Metadata: star.Metadata{
		Short: "print the fingerprint of each document",
	},
	Flags: append(hashFlags(), formatParam),
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
		paths, err := docPaths(pathsParam.LoadAll(c))
		if err != nil {
			return err
		}
		fps, err := hashDocs(ctx, h, c.StdIn, paths, formatParam.Load(c))
		if err != nil {
			return err
		}
		for i, fp := range fps {
			c.Printf("%s  %s\n", fp, paths[i])
		}
		return nil
	},
}

// hashDocs decodes and hashes the documents at paths concurrently.
// The results are in the same order as paths.
func hashDocs(ctx context.Context, h *objhash.Hasher, stdin io.Reader, paths []string, f ohdecode.Format) ([]objhash.Fingerprint, error) {
	return parallel(ctx, paths, func(ctx context.Context, p string) (objhash.Fingerprint, error) {
		v, err := loadDoc(stdin, p, f)
		if err != nil {
			return objhash.Fingerprint{}, err
		}
		fp, err := h.Hash(v)
		if err != nil {
			return objhash.Fingerprint{}, err
		}
		logctx.Debug(ctx, "hashed", zap.String("path", p), zap.Stringer("fingerprint", fp))
		return fp, nil
	})
}

// loadDocs decodes the documents at paths concurrently.
func loadDocs(ctx context.Context, stdin io.Reader, paths []string, f ohdecode.Format) ([]ohvalue.Value, error) {
	return parallel(ctx, paths, func(ctx context.Context, p string) (ohvalue.Value, error) {
		return loadDoc(stdin, p, f)
	})
}

// parallel calls fn for each path, with at most GOMAXPROCS calls at a time.
func parallel[T any](ctx context.Context, paths []string, fn func(ctx context.Context, p string) (T, error)) ([]T, error) {
	out := make([]T, len(paths))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, p := range paths {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			x, err := fn(ctx, p)
			if err != nil {
				return err
			}
			out[i] = x
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// docPaths returns the documents named on the command line.
// No paths means stdin, which can only be read once.
func docPaths(paths []string) ([]string, error) {
	if len(paths) == 0 {
		return []string{"-"}, nil
	}
	var stdin int
	for _, p := range paths {
		if p == "-" {
			stdin++
		}
	}
	if stdin > 1 {
		return nil, errors.New("stdin (-) can only be given once")
	}
	return paths, nil
}

// loadDoc decodes the document at p.  "-" is stdin, which is JSON unless f says otherwise.
func loadDoc(stdin io.Reader, p string, f ohdecode.Format) (ohvalue.Value, error) {
	if p != "-" {
		return ohdecode.DecodeFile(p, f)
	}
	if f == "" {
		f = ohdecode.FormatJSON
	}
	return ohdecode.Decode(f, stdin)
}
