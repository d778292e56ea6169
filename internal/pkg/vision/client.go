package vision

import (
	"context"
	"fmt"

	visionapi "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"
)

// Label is one label annotation with its confidence score, in the
// order the vision service returned it.
type Label struct {
	Description string
	Score       float64
}

// Object is one localized object annotation.
type Object struct {
	Name  string
	Score float64
}

// Annotation is the subset of a vision analysis the classifier needs.
type Annotation struct {
	Labels   []Label
	Objects  []Object
	FullText string
}

// Annotator labels an image given a fetchable URI (https:// or gs://).
type Annotator interface {
	AnnotateImage(ctx context.Context, imageURI string) (*Annotation, error)
}

// Client wraps the Cloud Vision image annotator
type Client struct {
	api *visionapi.ImageAnnotatorClient
}

// NewClient creates a new vision client. An empty credentialsFile falls
// back to application default credentials.
func NewClient(ctx context.Context, credentialsFile string) (*Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	api, err := visionapi.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create vision client: %w", err)
	}

	return &Client{api: api}, nil
}

func (c *Client) AnnotateImage(ctx context.Context, imageURI string) (*Annotation, error) {
	req := &visionpb.AnnotateImageRequest{
		Image: &visionpb.Image{
			Source: &visionpb.ImageSource{ImageUri: imageURI},
		},
		Features: []*visionpb.Feature{
			{Type: visionpb.Feature_LABEL_DETECTION, MaxResults: 10},
			{Type: visionpb.Feature_OBJECT_LOCALIZATION, MaxResults: 10},
			{Type: visionpb.Feature_TEXT_DETECTION, MaxResults: 5},
		},
	}

	batchRes, err := c.api.BatchAnnotateImages(ctx, &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{req},
	})
	if err != nil {
		return nil, fmt.Errorf("annotate image: %w", err)
	}
	res := batchRes.GetResponses()[0]
	if resErr := res.GetError(); resErr != nil {
		return nil, fmt.Errorf("annotate image: %s", resErr.GetMessage())
	}

	annotation := &Annotation{}

	for _, l := range res.GetLabelAnnotations() {
		if l.GetDescription() == "" {
			continue
		}
		annotation.Labels = append(annotation.Labels, Label{
			Description: l.GetDescription(),
			Score:       float64(l.GetScore()),
		})
	}

	for _, o := range res.GetLocalizedObjectAnnotations() {
		if o.GetName() == "" {
			continue
		}
		annotation.Objects = append(annotation.Objects, Object{
			Name:  o.GetName(),
			Score: float64(o.GetScore()),
		})
	}

	// The first text annotation carries the full extracted text block;
	// the rest are per-word fragments.
	if texts := res.GetTextAnnotations(); len(texts) > 0 {
		annotation.FullText = texts[0].GetDescription()
	}

	return annotation, nil
}

func (c *Client) Close() error {
	return c.api.Close()
}
