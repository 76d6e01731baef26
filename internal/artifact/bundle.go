package artifact

import (
	"context"
	"fmt"
	"io"

	"github.com/couchcryptid/rain-forecast-service/internal/domain"
	"golang.org/x/sync/errgroup"
)

// Default artifact file names.
const (
	ScalerFile         = "scaler.json"
	ImputerFile        = "imputer.json"
	ClassifierFile     = "classifier.json"
	ONNXClassifierFile = "classifier.onnx"
)

// ClassifierDecoder turns classifier artifact bytes into a Classifier.
type ClassifierDecoder func(data []byte) (domain.Classifier, error)

// Options selects the classifier artifact and how to decode it. The zero value
// loads classifier.json as a logistic regression.
type Options struct {
	ClassifierFile   string
	DecodeClassifier ClassifierDecoder
}

// Bundle holds the fitted artifacts shared read-only by every request.
type Bundle struct {
	Manifest   domain.Manifest
	Encoding   *domain.Encoding
	Imputer    *SimpleImputer
	Scaler     *StandardScaler
	Classifier domain.Classifier
}

// widther is implemented by classifiers that know their input width.
type widther interface {
	Width() int
}

// LoadBundle fetches and decodes the scaler, imputer, and classifier
// concurrently, then checks that their widths agree with the manifest.
func LoadBundle(ctx context.Context, src Source, opts Options) (*Bundle, error) {
	if opts.ClassifierFile == "" {
		opts.ClassifierFile = ClassifierFile
	}
	if opts.DecodeClassifier == nil {
		opts.DecodeClassifier = DecodeClassifier
	}

	var (
		scaler     *StandardScaler
		imputer    *SimpleImputer
		classifier domain.Classifier
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		data, err := src.Fetch(gctx, ScalerFile)
		if err != nil {
			return err
		}
		scaler, err = DecodeScaler(data)
		return err
	})
	g.Go(func() error {
		data, err := src.Fetch(gctx, ImputerFile)
		if err != nil {
			return err
		}
		imputer, err = DecodeImputer(data)
		return err
	})
	g.Go(func() error {
		data, err := src.Fetch(gctx, opts.ClassifierFile)
		if err != nil {
			return err
		}
		classifier, err = opts.DecodeClassifier(data)
		return err
	})
	if err := g.Wait(); err != nil {
		closeClassifier(classifier)
		return nil, fmt.Errorf("load artifacts: %w", err)
	}

	manifest := scaler.Manifest()
	if w, ok := classifier.(widther); ok && w.Width() != manifest.Width() {
		closeClassifier(classifier)
		return nil, fmt.Errorf("load artifacts: %w",
			&domain.ShapeMismatchError{Stage: "classifier", Got: w.Width(), Want: manifest.Width()})
	}

	return &Bundle{
		Manifest:   manifest,
		Encoding:   domain.NewEncoding(manifest, domain.CategoricalFields),
		Imputer:    imputer,
		Scaler:     scaler,
		Classifier: classifier,
	}, nil
}

// Problems lists inconsistencies that do not prevent loading but will fail or
// degrade requests, such as an imputer fitted on other categorical columns.
func (b *Bundle) Problems() []string {
	var problems []string
	if !equalColumns(b.Imputer.Columns(), domain.CategoricalFields) {
		problems = append(problems, (&domain.ImputationError{
			Columns: domain.CategoricalFields,
			Fitted:  b.Imputer.Columns(),
		}).Error())
	}
	for _, f := range domain.CategoricalFields {
		if len(b.Encoding.Categories(f)) == 0 {
			problems = append(problems, fmt.Sprintf("manifest has no indicator columns for categorical field %q", f))
		}
	}
	if _, ok := b.Classifier.(domain.ProbabilityEstimator); !ok {
		problems = append(problems, "classifier does not estimate probabilities; probability will equal the label")
	}
	return problems
}

// Close releases classifier resources, if any.
func (b *Bundle) Close() error {
	if c, ok := b.Classifier.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func closeClassifier(c domain.Classifier) {
	if closer, ok := c.(io.Closer); ok {
		_ = closer.Close()
	}
}
