package secrets

import (
	"context"
	"fmt"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/api/option"
)

// GoogleProvider resuelve secretos contra Google Secret Manager.
// ref puede ser el resource name completo
// (projects/<proyecto>/secrets/<nombre>/versions/<v>) o solo el nombre del
// secreto, que se expande contra el proyecto configurado usando la versión latest.
type GoogleProvider struct {
	client  *secretmanager.Client
	project string
}

var _ Provider = (*GoogleProvider)(nil)

// NewGoogleProvider construye el adaptador de Secret Manager.
// credentialsFile es opcional; vacío usa Application Default Credentials.
func NewGoogleProvider(ctx context.Context, project, credentialsFile string) (*GoogleProvider, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := secretmanager.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("secrets: crear cliente de Secret Manager: %w", err)
	}
	return &GoogleProvider{client: client, project: project}, nil
}

// Resolve accede a la versión del secreto y devuelve su payload como texto.
func (p *GoogleProvider) Resolve(ctx context.Context, ref string) (string, error) {
	name := ref
	if !strings.HasPrefix(ref, "projects/") {
		name = fmt.Sprintf("projects/%s/secrets/%s/versions/latest", p.project, ref)
	}

	resp, err := p.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: name,
	})
	if err != nil {
		return "", fmt.Errorf("secrets: acceder a %s: %w", name, err)
	}
	return string(resp.GetPayload().GetData()), nil
}

// Close libera la conexión gRPC del cliente.
func (p *GoogleProvider) Close() error {
	return p.client.Close()
}
