package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	apperrors "github.com/anime-shed/palette-inspector-go/internal/errors"
)

// blobDownloader is the part of *azblob.Client the blob source needs
type blobDownloader interface {
	DownloadStream(ctx context.Context, containerName string, blobName string, o *azblob.DownloadStreamOptions) (azblob.DownloadStreamResponse, error)
}

// AzureBlobFetcher implements ImageFetcher for Azure blob storage
type AzureBlobFetcher struct {
	client   blobDownloader
	maxBytes int64
}

// NewAzureBlobFetcher authenticates with a shared key against the account's
// blob endpoint.
func NewAzureBlobFetcher(accountName, accountKey string, maxBytes int64) (*AzureBlobFetcher, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("invalid azure credentials: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net/", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("create azure blob client: %w", err)
	}

	return &AzureBlobFetcher{client: client, maxBytes: maxBytes}, nil
}

func (s *AzureBlobFetcher) Name() string {
	return "azure"
}

func (s *AzureBlobFetcher) FetchImage(ctx context.Context, ref string) (*DecodedImage, error) {
	containerName, blobName, err := parseBlobReference(ref)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid blob reference", err)
	}

	resp, err := s.client.DownloadStream(ctx, containerName, blobName, nil)
	if err != nil {
		return nil, classifyBlobError(err)
	}
	defer resp.Body.Close()

	if resp.ContentLength != nil && s.maxBytes > 0 && *resp.ContentLength > s.maxBytes {
		return nil, apperrors.NewPayloadTooLargeError("blob is too large", nil)
	}

	return DecodeImage(resp.Body, s.maxBytes)
}

func classifyBlobError(err error) error {
	switch {
	case bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound, bloberror.ResourceNotFound):
		return apperrors.NewNotFoundError("blob not found", err)
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.NewTimeoutError("blob download timed out", err)
	default:
		return apperrors.NewNetworkError("blob download failed", err)
	}
}

// parseBlobReference accepts "container/path/to/blob.png" or a full blob URL
// such as https://acct.blob.core.windows.net/container/path/to/blob.png.
func parseBlobReference(ref string) (container, blob string, err error) {
	ref = strings.TrimSpace(ref)
	p := ref
	if strings.Contains(ref, "://") {
		u, perr := url.Parse(ref)
		if perr != nil {
			return "", "", perr
		}
		p = u.Path
	}

	p = strings.TrimPrefix(p, "/")
	container, blob, ok := strings.Cut(p, "/")
	if !ok || container == "" || blob == "" {
		return "", "", fmt.Errorf("reference %q must name a container and a blob", ref)
	}
	if unescaped, uerr := url.PathUnescape(blob); uerr == nil {
		blob = unescaped
	}
	return container, blob, nil
}
