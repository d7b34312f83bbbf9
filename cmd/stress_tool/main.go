package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// Checkout load generator. Fires concurrent order creations at a running
// server, optionally with a coupon code, and reports QPS and outcome
// counts. Point it at a seeded dev instance.

var httpClient *http.Client

func init() {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 2000
	t.MaxIdleConnsPerHost = 2000
	t.MaxConnsPerHost = 2000
	httpClient = &http.Client{
		Transport: t,
		Timeout:   10 * time.Second,
	}
}

func main() {
	baseURL := flag.String("base", "http://localhost:8080", "server base URL")
	total := flag.Int("n", 1000, "number of checkout requests")
	coupon := flag.String("coupon", "", "coupon code to attach to every order")
	productSlug := flag.String("product", "netflix-premium", "product slug to order")
	flag.Parse()

	productID, err := fetchProductID(*baseURL, *productSlug)
	if err != nil {
		fmt.Printf("Failed to resolve product %q: %v\n", *productSlug, err)
		return
	}

	fmt.Printf("Firing %d checkouts at %s (product %s, coupon %q)...\n",
		*total, *baseURL, productID, *coupon)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		created  int
		rejected int
		failed   int
	)

	start := time.Now()
	for i := 0; i < *total; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			switch createOrder(*baseURL, productID, *coupon, n) {
			case outcomeCreated:
				mu.Lock()
				created++
				mu.Unlock()
			case outcomeRejected:
				mu.Lock()
				rejected++
				mu.Unlock()
			default:
				mu.Lock()
				failed++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	duration := time.Since(start)
	fmt.Println("--------------------------------------------------")
	fmt.Printf("Done in %v\n", duration)
	fmt.Printf("Requests: %d, QPS: %.2f\n", *total, float64(*total)/duration.Seconds())
	fmt.Printf("Created: %d, coupon rejected: %d, errors: %d\n", created, rejected, failed)
	fmt.Println("--------------------------------------------------")
}

func fetchProductID(baseURL, slug string) (string, error) {
	resp, err := httpClient.Get(fmt.Sprintf("%s/api/products/%s", baseURL, slug))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var result struct {
		Code int `json:"code"`
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	body, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}
	if result.Data.ID == "" {
		return "", fmt.Errorf("product not found: %s", string(body))
	}
	return result.Data.ID, nil
}

type outcome int

const (
	outcomeCreated outcome = iota
	outcomeRejected
	outcomeError
)

func createOrder(baseURL, productID, coupon string, n int) outcome {
	payload := map[string]interface{}{
		"customer": map[string]string{
			"name":  fmt.Sprintf("Load User %d", n),
			"email": fmt.Sprintf("load%d@example.com", n),
		},
		"items": []map[string]interface{}{
			{"productId": productID, "quantity": 1, "tierIndex": 0},
		},
	}
	if coupon != "" {
		payload["couponCode"] = coupon
	}

	body, _ := json.Marshal(payload)
	resp, err := httpClient.Post(baseURL+"/api/orders", "application/json", bytes.NewBuffer(body))
	if err != nil {
		return outcomeError
	}
	defer resp.Body.Close()

	var result struct {
		Code int `json:"code"`
	}
	respBody, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(respBody, &result); err != nil {
		return outcomeError
	}

	switch {
	case result.Code == 0:
		return outcomeCreated
	case result.Code >= 20000 && result.Code < 30000:
		return outcomeRejected
	default:
		return outcomeError
	}
}
