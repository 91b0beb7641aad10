package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

const (
	defaultAPIBase = "http://localhost:8080"
)

var (
	apiBase    string
	token      string
	client     = &http.Client{Timeout: 30 * time.Second}
	testWeek   int
	testYear   int
	createdIDs = make(map[string]string) // track created resources for cleanup
)

func main() {
	fmt.Println("=== Recipe Hub E2E Smoke Test ===")
	fmt.Println()

	// Load config from env
	apiBase = getEnv("API_BASE_URL", defaultAPIBase)
	token = getEnv("SMOKE_TOKEN", "")

	fmt.Printf("API Base: %s\n", apiBase)
	fmt.Printf("Token: %s\n", maskString(token))
	fmt.Println()

	// Test week (current ISO week)
	testYear, testWeek = time.Now().ISOWeek()

	// Run smoke tests
	steps := []struct {
		name string
		fn   func() error
	}{
		{"Healthz", testHealthz},
		{"Dev Auth", testDevAuth},
		{"Create Recipe", testCreateRecipe},
		{"Get Recipe", testGetRecipe},
		{"Get Week Plan", testGetWeekPlan},
		{"Plan Meal (Recipe)", testPlanMealRecipe},
		{"Replace Meal (Note)", testReplaceMealNote},
		{"Export Week (PDF)", testExportWeekPDF},
		{"Planner History", testPlannerHistory},
		{"Activity Feed", testActivityFeed},
		{"Clear Meal", testClearMeal},
		{"Delete Recipe", testDeleteRecipe},
	}

	failed := false
	for i, step := range steps {
		fmt.Printf("[%d/%d] %s... ", i+1, len(steps), step.name)
		if err := step.fn(); err != nil {
			fmt.Printf("❌ FAILED\n")
			fmt.Printf("  Error: %v\n\n", err)
			failed = true
			break
		}
		fmt.Printf("✅ OK\n")
	}

	fmt.Println()
	if failed {
		fmt.Println("❌ SMOKE TEST FAILED")
		os.Exit(1)
	}

	fmt.Println("✅ ALL SMOKE TESTS PASSED")
}

func testHealthz() error {
	req, err := http.NewRequest("GET", apiBase+"/healthz", nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	return nil
}

func testDevAuth() error {
	// If token already set via env, skip
	if token != "" {
		return nil
	}

	body, err := json.Marshal(map[string]string{"user_id": "smoke-user"})
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", apiBase+"/v1/auth/dev", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	var result struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}

	if result.AccessToken == "" {
		return fmt.Errorf("empty access token")
	}

	token = result.AccessToken
	return nil
}

func testCreateRecipe() error {
	payload := map[string]interface{}{
		"title":       "Smoke Test Pasta",
		"description": "Created by the smoke test",
		"servings":    2,
		"ingredients": []map[string]string{
			{"name": "Pasta", "quantity": "200 g"},
			{"name": "Olive oil", "quantity": "1 tbsp"},
		},
		"steps": []string{
			"Boil the pasta.",
			"Toss with olive oil.",
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", apiBase+"/v1/recipes", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	addAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}

	if result.ID == "" {
		return fmt.Errorf("empty recipe id")
	}

	createdIDs["recipe"] = result.ID
	return nil
}

func testGetRecipe() error {
	recipeID := createdIDs["recipe"]
	if recipeID == "" {
		return fmt.Errorf("no recipe ID to fetch")
	}

	url := fmt.Sprintf("%s/v1/recipes/%s", apiBase, recipeID)
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return err
	}
	addAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	var result struct {
		Title       string `json:"title"`
		Ingredients []struct {
			Name string `json:"name"`
		} `json:"ingredients"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}

	if result.Title != "Smoke Test Pasta" {
		return fmt.Errorf("unexpected title %q", result.Title)
	}
	if len(result.Ingredients) != 2 {
		return fmt.Errorf("expected 2 ingredients, got %d", len(result.Ingredients))
	}

	return nil
}

func testGetWeekPlan() error {
	url := fmt.Sprintf("%s/v1/planner/week?week=%d&year=%d", apiBase, testWeek, testYear)
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return err
	}
	addAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	var result struct {
		Days []struct {
			DayOfWeek int `json:"day_of_week"`
		} `json:"days"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}

	if len(result.Days) != 7 {
		return fmt.Errorf("expected 7 days, got %d", len(result.Days))
	}

	return nil
}

func testPlanMealRecipe() error {
	recipeID := createdIDs["recipe"]
	if recipeID == "" {
		return fmt.Errorf("no recipe ID to plan")
	}

	payload := map[string]interface{}{
		"week":        testWeek,
		"year":        testYear,
		"day_of_week": 2,
		"meal_slot":   1,
		"recipe_id":   recipeID,
	}

	return upsertMeal(payload)
}

func testReplaceMealNote() error {
	payload := map[string]interface{}{
		"week":        testWeek,
		"year":        testYear,
		"day_of_week": 2,
		"meal_slot":   1,
		"free_note":   "Leftovers from yesterday",
	}

	return upsertMeal(payload)
}

func upsertMeal(payload map[string]interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", apiBase+"/v1/planner/week/meals", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	addAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	var result struct {
		Days []struct {
			DayOfWeek int `json:"day_of_week"`
			Meals     []struct {
				MealSlot int `json:"meal_slot"`
			} `json:"meals"`
		} `json:"days"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}

	if len(result.Days) != 7 {
		return fmt.Errorf("expected 7 days, got %d", len(result.Days))
	}
	if len(result.Days[2].Meals) != 1 {
		return fmt.Errorf("expected 1 meal on day 2, got %d", len(result.Days[2].Meals))
	}

	return nil
}

func testExportWeekPDF() error {
	url := fmt.Sprintf("%s/v1/planner/week/export?week=%d&year=%d", apiBase, testWeek, testYear)
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return err
	}
	addAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read body: %w", err)
	}
	if len(data) < 10 {
		return fmt.Errorf("PDF too small: %d bytes", len(data))
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		return fmt.Errorf("response is not a PDF")
	}

	return nil
}

func testPlannerHistory() error {
	req, err := http.NewRequest("GET", apiBase+"/v1/planner/history", nil)
	if err != nil {
		return err
	}
	addAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	var result struct {
		Plans []struct {
			Week int `json:"week"`
			Year int `json:"year"`
		} `json:"plans"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}

	if len(result.Plans) == 0 {
		return fmt.Errorf("no plans in history")
	}

	return nil
}

func testActivityFeed() error {
	req, err := http.NewRequest("GET", apiBase+"/v1/activities", nil)
	if err != nil {
		return err
	}
	addAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	var result struct {
		Activities []struct {
			Kind string `json:"kind"`
		} `json:"activities"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}

	if len(result.Activities) == 0 {
		return fmt.Errorf("no activities found")
	}

	return nil
}

func testClearMeal() error {
	url := fmt.Sprintf("%s/v1/planner/week/meals?week=%d&year=%d&day_of_week=2&meal_slot=1", apiBase, testWeek, testYear)
	req, err := http.NewRequest("DELETE", url, nil)
	if err != nil {
		return err
	}
	addAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	var result struct {
		Days []struct {
			Meals []struct {
				MealSlot int `json:"meal_slot"`
			} `json:"meals"`
		} `json:"days"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}

	if len(result.Days) == 7 && len(result.Days[2].Meals) != 0 {
		return fmt.Errorf("expected empty slot after delete, got %d meals", len(result.Days[2].Meals))
	}

	return nil
}

func testDeleteRecipe() error {
	recipeID := createdIDs["recipe"]
	if recipeID == "" {
		return fmt.Errorf("no recipe ID to delete")
	}

	url := fmt.Sprintf("%s/v1/recipes/%s", apiBase, recipeID)
	req, err := http.NewRequest("DELETE", url, nil)
	if err != nil {
		return err
	}
	addAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	return nil
}

// Helper functions

func addAuth(req *http.Request) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func maskString(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 8 {
		return "***"
	}
	return s[:4] + "..." + s[len(s)-4:]
}
