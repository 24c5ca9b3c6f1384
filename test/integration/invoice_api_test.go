package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFile represents a file attachment in API responses
type TestFile struct {
	ID        string `json:"id"`
	Filename  string `json:"filename"`
	URL       string `json:"url"`
	InvoiceID string `json:"invoiceId"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// TestInvoice represents an invoice in the API
type TestInvoice struct {
	ID            string     `json:"id,omitempty"`
	InvoiceNumber string     `json:"invoiceNumber"`
	Date          string     `json:"date"`
	TotalAmount   float64    `json:"totalAmount"`
	PaymentStatus string     `json:"paymentStatus"`
	Files         []TestFile `json:"files"`
	CreatedAt     string     `json:"createdAt,omitempty"`
	UpdatedAt     string     `json:"updatedAt,omitempty"`
}

// TestInvoiceAPI exercises the invoice endpoints against a running instance.
// Set API_BASE_URL (e.g. http://localhost:8080/v1) to enable it.
func TestInvoiceAPI(t *testing.T) {
	baseURL := os.Getenv("API_BASE_URL")
	if baseURL == "" {
		t.Skip("Skipping integration tests: API_BASE_URL is not configured")
	}

	client := &http.Client{
		Timeout: 10 * time.Second,
	}

	invoiceNumber := fmt.Sprintf("INV-%04d", time.Now().UnixNano()%10000)

	// Variables shared between subtests
	var testInvoiceID string
	var testFileID string

	// 1. Create an invoice with an attachment
	t.Run("CreateInvoice", func(t *testing.T) {
		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)
		require.NoError(t, writer.WriteField("invoiceNumber", invoiceNumber))
		require.NoError(t, writer.WriteField("date", "2024-05-01"))
		require.NoError(t, writer.WriteField("totalAmount", "100.50"))
		require.NoError(t, writer.WriteField("paymentStatus", "UNPAID"))

		fileWriter, err := writer.CreateFormFile("files", "contract.pdf")
		require.NoError(t, err, "Failed to create form file")
		_, err = fileWriter.Write([]byte("%PDF-1.4 test payload"))
		require.NoError(t, err, "Failed to write form file")
		require.NoError(t, writer.Close())

		req, err := http.NewRequest(http.MethodPost, fmt.Sprintf("%s/invoices", baseURL), &buf)
		require.NoError(t, err, "Failed to create request")
		req.Header.Set("Content-Type", writer.FormDataContentType())

		resp, err := client.Do(req)
		require.NoError(t, err, "Failed to execute request")
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusCreated {
			bodyBytes, readErr := io.ReadAll(resp.Body)
			if readErr == nil {
				t.Logf("Response body: %s", string(bodyBytes))
			}
			resp.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		}
		require.Equal(t, http.StatusCreated, resp.StatusCode, "Expected status code 201")

		var created TestInvoice
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&created), "Failed to decode response body")

		assert.NotEmpty(t, created.ID, "Invoice ID should not be empty")
		assert.Equal(t, invoiceNumber, created.InvoiceNumber, "Invoice number doesn't match")
		assert.Equal(t, "2024-05-01", created.Date, "Date doesn't match")
		assert.Equal(t, 100.50, created.TotalAmount, "Total amount doesn't match")
		require.Len(t, created.Files, 1, "Expected one attached file")
		assert.NotEmpty(t, created.Files[0].URL, "File URL should not be empty")

		testInvoiceID = created.ID
		testFileID = created.Files[0].ID
		t.Logf("Created test invoice with ID: %s", testInvoiceID)
	})

	// 2. Duplicate invoice numbers are rejected
	t.Run("CreateDuplicateInvoice", func(t *testing.T) {
		require.NotEmpty(t, testInvoiceID, "CreateInvoice must run first")

		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)
		require.NoError(t, writer.WriteField("invoiceNumber", invoiceNumber))
		require.NoError(t, writer.WriteField("date", "2024-06-01"))
		require.NoError(t, writer.WriteField("totalAmount", "10.00"))
		require.NoError(t, writer.WriteField("paymentStatus", "PAID"))
		require.NoError(t, writer.Close())

		req, err := http.NewRequest(http.MethodPost, fmt.Sprintf("%s/invoices", baseURL), &buf)
		require.NoError(t, err, "Failed to create request")
		req.Header.Set("Content-Type", writer.FormDataContentType())

		resp, err := client.Do(req)
		require.NoError(t, err, "Failed to execute request")
		defer resp.Body.Close()

		assert.Equal(t, http.StatusConflict, resp.StatusCode, "Expected status code 409")
	})

	// 3. Fetch the invoice by id
	t.Run("GetInvoiceByID", func(t *testing.T) {
		require.NotEmpty(t, testInvoiceID, "CreateInvoice must run first")

		resp, err := client.Get(fmt.Sprintf("%s/invoices/%s", baseURL, testInvoiceID))
		require.NoError(t, err, "Failed to execute request")
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode, "Expected status code 200")

		var fetched TestInvoice
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&fetched), "Failed to decode response body")
		assert.Equal(t, invoiceNumber, fetched.InvoiceNumber, "Invoice number doesn't match")
		assert.Len(t, fetched.Files, 1, "Expected one attached file")
	})

	// 4. Update the payment status
	t.Run("UpdateInvoice", func(t *testing.T) {
		require.NotEmpty(t, testInvoiceID, "CreateInvoice must run first")

		requestBody, err := json.Marshal(map[string]interface{}{
			"paymentStatus": "PAID",
		})
		require.NoError(t, err, "Failed to marshal update input")

		req, err := http.NewRequest(http.MethodPatch, fmt.Sprintf("%s/invoices/%s", baseURL, testInvoiceID), bytes.NewBuffer(requestBody))
		require.NoError(t, err, "Failed to create request")
		req.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(req)
		require.NoError(t, err, "Failed to execute request")
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode, "Expected status code 200")

		var updated TestInvoice
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&updated), "Failed to decode response body")
		assert.Equal(t, "PAID", updated.PaymentStatus, "Payment status doesn't match")
	})

	// 5. Filter by payment status
	t.Run("FilterByPaymentStatus", func(t *testing.T) {
		require.NotEmpty(t, testInvoiceID, "CreateInvoice must run first")

		resp, err := client.Get(fmt.Sprintf("%s/invoices/filter/payment?paymentStatus=PAID", baseURL))
		require.NoError(t, err, "Failed to execute request")
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode, "Expected status code 200")

		var invoices []TestInvoice
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&invoices), "Failed to decode response body")

		found := false
		for _, invoice := range invoices {
			if invoice.ID == testInvoiceID {
				found = true
				break
			}
		}
		assert.True(t, found, "Updated invoice should appear in PAID filter results")
	})

	// 6. Filter by date range, including the inverted-range rejection
	t.Run("FilterByDateRange", func(t *testing.T) {
		require.NotEmpty(t, testInvoiceID, "CreateInvoice must run first")

		resp, err := client.Get(fmt.Sprintf("%s/invoices/filter/date?startDate=2024-01-01&endDate=2024-12-31", baseURL))
		require.NoError(t, err, "Failed to execute request")
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode, "Expected status code 200")

		resp, err = client.Get(fmt.Sprintf("%s/invoices/filter/date?startDate=2024-12-31&endDate=2024-01-01", baseURL))
		require.NoError(t, err, "Failed to execute request")
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "Inverted range should be rejected")
	})

	// 7. Delete the attached file
	t.Run("DeleteFile", func(t *testing.T) {
		require.NotEmpty(t, testFileID, "CreateInvoice must run first")

		req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/files/%s", baseURL, testFileID), nil)
		require.NoError(t, err, "Failed to create request")

		resp, err := client.Do(req)
		require.NoError(t, err, "Failed to execute request")
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNoContent, resp.StatusCode, "Expected status code 204")
	})

	// 8. Delete the invoice and verify it's gone
	t.Run("DeleteInvoice", func(t *testing.T) {
		require.NotEmpty(t, testInvoiceID, "CreateInvoice must run first")

		req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/invoices/%s", baseURL, testInvoiceID), nil)
		require.NoError(t, err, "Failed to create request")

		resp, err := client.Do(req)
		require.NoError(t, err, "Failed to execute request")
		defer resp.Body.Close()
		require.Equal(t, http.StatusNoContent, resp.StatusCode, "Expected status code 204")

		getResp, err := client.Get(fmt.Sprintf("%s/invoices/%s", baseURL, testInvoiceID))
		require.NoError(t, err, "Failed to execute request")
		defer getResp.Body.Close()
		assert.Equal(t, http.StatusNotFound, getResp.StatusCode, "Deleted invoice should not be found")
	})
}
