package asaas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const Provider = "asaas"

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(apiKey, baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// CreateCustomer: Cria o cliente no Asaas e retorna o ID (cus_xxxx)
func (c *Client) CreateCustomer(ctx context.Context, input CreateCustomerInput) (string, error) {
	payload := createCustomerRequest{
		Name:                 input.Name,
		Email:                input.Email,
		CpfCnpj:              input.CpfCnpj,
		MobilePhone:          input.MobilePhone,
		ExternalReference:    input.ExternalReference,
		NotificationDisabled: true,
	}

	var response customerResponse
	if err := c.do(ctx, http.MethodPost, "/customers", payload, &response); err != nil {
		return "", fmt.Errorf("erro criar cliente asaas: %w", err)
	}
	return response.ID, nil
}

// CreatePixCharge creates a one-off PIX payment and fetches its QR code.
func (c *Client) CreatePixCharge(ctx context.Context, input PixChargeInput) (*PixCharge, error) {
	dueDate := input.DueDate
	if dueDate == "" {
		dueDate = time.Now().Format("2006-01-02")
	}

	payload := createPaymentRequest{
		Customer:          input.CustomerID,
		BillingType:       "PIX",
		Value:             float64(input.AmountCents) / 100,
		DueDate:           dueDate,
		Description:       input.Description,
		ExternalReference: input.ExternalReference,
	}

	var payment paymentResponse
	if err := c.do(ctx, http.MethodPost, "/payments", payload, &payment); err != nil {
		return nil, fmt.Errorf("erro criar cobrança pix: %w", err)
	}

	var qr pixQRCodeResponse
	if err := c.do(ctx, http.MethodGet, "/payments/"+payment.ID+"/pixQrCode", nil, &qr); err != nil {
		return nil, fmt.Errorf("erro buscar qrcode pix (%s): %w", payment.ID, err)
	}

	return &PixCharge{
		PaymentID:    payment.ID,
		Status:       payment.Status,
		PixCode:      qr.Payload,
		PixQRCodeURL: "data:image/png;base64," + qr.EncodedImage,
		ExpiresAt:    qr.ExpirationDate,
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("erro ao gerar json: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("erro na conexão com asaas: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Printf("❌ ERRO API ASAAS %s %s (Status %d): %s", method, path, resp.StatusCode, string(respBody))
		return fmt.Errorf("api asaas rejeitou (status %d)", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("erro ao ler resposta asaas: %w", err)
	}
	return nil
}

// setHeaders centraliza os headers obrigatórios
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("access_token", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "MarketplaceLeads/1.0")
}
