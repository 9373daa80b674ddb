package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/recipe-scaler/internal/config"
	"github.com/foxxcyber/recipe-scaler/internal/database"
	"github.com/foxxcyber/recipe-scaler/internal/services"
)

// memoryImages is an in-memory services.ImageStore
type memoryImages struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemoryImages() *memoryImages {
	return &memoryImages{objects: make(map[string][]byte)}
}

func (m *memoryImages) Upload(_ context.Context, key string, reader io.Reader, size int64, contentType string) (*services.UploadResult, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return &services.UploadResult{Bucket: "test", Key: key, Size: size, ContentType: contentType}, nil
}

func (m *memoryImages) GetPresignedURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://images.test/" + key, nil
}

func (m *memoryImages) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memoryImages) DeleteMultiple(ctx context.Context, keys []string) error {
	for _, k := range keys {
		if err := m.Delete(ctx, k); err != nil {
			return err
		}
	}
	return nil
}

func (m *memoryImages) ListKeys(_ context.Context, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var keys []string
	for k := range m.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

type testServer struct {
	app    *fiber.App
	images *memoryImages
}

func newTestServer(t *testing.T, withImages bool) *testServer {
	t.Helper()

	store, err := database.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "recipes.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(store.Close)

	cfg := &config.Config{
		PublicBaseURL: "https://recipes.test",
		MaxImageMB:    1,
		ShareExpiry:   time.Hour,
	}

	ts := &testServer{}
	var images services.ImageStore
	if withImages {
		ts.images = newMemoryImages()
		images = ts.images
	}

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	New(store, cfg, services.NewShareService("test-secret", cfg.ShareExpiry), images).RegisterRoutes(app)
	ts.app = app
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = strings.NewReader(b)
		default:
			data, err := json.Marshal(b)
			if err != nil {
				t.Fatalf("marshal body: %v", err)
			}
			reader = bytes.NewReader(data)
		}
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return ts.send(t, req)
}

func (ts *testServer) send(t *testing.T, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := ts.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return v
}

func expectStatus(t *testing.T, resp *http.Response, body []byte, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("status = %d, want %d, body: %s", resp.StatusCode, want, body)
	}
}

func expectErrorCode(t *testing.T, resp *http.Response, body []byte, status int, code string) {
	t.Helper()
	expectStatus(t, resp, body, status)
	got := decode[APIResponse](t, body)
	if got.Success || got.Code != code {
		t.Fatalf("error code = %q (success=%v), want %q, body: %s", got.Code, got.Success, code, body)
	}
}

type recipeBody struct {
	ID              string  `json:"_id"`
	Name            string  `json:"name"`
	OriginalPortion float64 `json:"originalPortion"`
	Ingredients     []struct {
		Name   string  `json:"name"`
		Weight float64 `json:"weight"`
		Unit   string  `json:"unit"`
	} `json:"ingredients"`
	Steps []string `json:"steps"`
}

func shortbread() map[string]any {
	return map[string]any{
		"name":            "Shortbread",
		"originalPortion": 4,
		"ingredients": []map[string]any{
			{"name": "Flour", "weight": 200, "unit": "g"},
			{"name": "Sugar", "weight": 100, "unit": "grams"},
		},
		"steps": []string{"Mix", "Bake"},
	}
}

func createRecipe(t *testing.T, ts *testServer, body map[string]any) recipeBody {
	t.Helper()
	resp, data := ts.do(t, http.MethodPost, "/api/recipes", body)
	expectStatus(t, resp, data, fiber.StatusCreated)
	return decode[recipeBody](t, data)
}

func TestRecipeCRUD(t *testing.T) {
	ts := newTestServer(t, false)

	created := createRecipe(t, ts, shortbread())
	if created.ID == "" || created.Name != "Shortbread" {
		t.Fatalf("unexpected recipe: %+v", created)
	}
	if created.Ingredients[1].Unit != "g" {
		t.Fatalf("unit not canonicalized: %+v", created.Ingredients)
	}

	resp, data := ts.do(t, http.MethodGet, "/api/recipes/"+created.ID, nil)
	expectStatus(t, resp, data, fiber.StatusOK)
	if got := decode[recipeBody](t, data); got.ID != created.ID {
		t.Fatalf("get returned %+v", got)
	}

	update := shortbread()
	update["name"] = "Butter Shortbread"
	resp, data = ts.do(t, http.MethodPut, "/api/recipes/"+created.ID, update)
	expectStatus(t, resp, data, fiber.StatusOK)
	if got := decode[recipeBody](t, data); got.Name != "Butter Shortbread" {
		t.Fatalf("update returned %+v", got)
	}

	resp, data = ts.do(t, http.MethodGet, "/api/recipes", nil)
	expectStatus(t, resp, data, fiber.StatusOK)
	if list := decode[[]recipeBody](t, data); len(list) != 1 {
		t.Fatalf("list returned %d recipes", len(list))
	}
	if resp.Header.Get("X-Total-Count") != "1" {
		t.Fatalf("X-Total-Count = %q", resp.Header.Get("X-Total-Count"))
	}

	resp, data = ts.do(t, http.MethodDelete, "/api/recipes/"+created.ID, nil)
	expectStatus(t, resp, data, fiber.StatusOK)

	resp, data = ts.do(t, http.MethodGet, "/api/recipes/"+created.ID, nil)
	expectErrorCode(t, resp, data, fiber.StatusNotFound, CodeRecipeNotFound)
}

func TestUndoDeleteRepostsWithSameID(t *testing.T) {
	ts := newTestServer(t, false)
	created := createRecipe(t, ts, shortbread())

	resp, data := ts.do(t, http.MethodDelete, "/api/recipes/"+created.ID, nil)
	expectStatus(t, resp, data, fiber.StatusOK)

	restore := shortbread()
	restore["_id"] = created.ID
	restored := createRecipe(t, ts, restore)
	if restored.ID != created.ID {
		t.Fatalf("restored id = %q, want %q", restored.ID, created.ID)
	}

	resp, data = ts.do(t, http.MethodPost, "/api/recipes", restore)
	expectErrorCode(t, resp, data, fiber.StatusConflict, CodeRecipeExists)
}

func TestCreateRecipeValidation(t *testing.T) {
	ts := newTestServer(t, false)

	bad := shortbread()
	bad["ingredients"] = []map[string]any{{"name": "Flour", "weight": 200, "unit": "cup"}}
	resp, data := ts.do(t, http.MethodPost, "/api/recipes", bad)
	expectErrorCode(t, resp, data, fiber.StatusBadRequest, CodeInvalidRecipe)

	resp, data = ts.do(t, http.MethodPost, "/api/recipes", "{not json")
	expectStatus(t, resp, data, fiber.StatusBadRequest)
}

func TestListRecipesSearchAndSort(t *testing.T) {
	ts := newTestServer(t, false)
	for _, name := range []string{"Banana Bread", "apple pie", "Carrot Cake"} {
		r := shortbread()
		r["name"] = name
		createRecipe(t, ts, r)
	}

	resp, data := ts.do(t, http.MethodGet, "/api/recipes?sort=desc", nil)
	expectStatus(t, resp, data, fiber.StatusOK)
	list := decode[[]recipeBody](t, data)
	if len(list) != 3 || list[0].Name != "Carrot Cake" || list[2].Name != "apple pie" {
		t.Fatalf("unexpected order: %+v", list)
	}

	resp, data = ts.do(t, http.MethodGet, "/api/recipes?search=bread", nil)
	expectStatus(t, resp, data, fiber.StatusOK)
	if list := decode[[]recipeBody](t, data); len(list) != 1 || list[0].Name != "Banana Bread" {
		t.Fatalf("unexpected search result: %+v", list)
	}

	resp, data = ts.do(t, http.MethodGet, "/api/recipes?sort=sideways", nil)
	expectStatus(t, resp, data, fiber.StatusBadRequest)

	resp, data = ts.do(t, http.MethodGet, "/api/recipes/stats", nil)
	expectStatus(t, resp, data, fiber.StatusOK)
	stats := decode[struct {
		Data struct {
			TotalRecipes     int `json:"total_recipes"`
			TotalIngredients int `json:"total_ingredients"`
		} `json:"data"`
	}](t, data)
	if stats.Data.TotalRecipes != 3 || stats.Data.TotalIngredients != 6 {
		t.Fatalf("unexpected stats: %s", data)
	}
}

type scaleBody struct {
	ScaledIngredients []struct {
		Name         string  `json:"name"`
		ScaledWeight float64 `json:"scaledWeight"`
		Unit         string  `json:"unit"`
	} `json:"scaledIngredients"`
	Factor   float64 `json:"factor"`
	RecipeID string  `json:"recipeId"`
}

func TestScaleStoredRecipe(t *testing.T) {
	ts := newTestServer(t, false)
	recipe := createRecipe(t, ts, shortbread())

	tests := []struct {
		name   string
		body   map[string]any
		factor float64
		flour  float64
		sugar  float64
	}{
		{
			name: "by portion",
			body: map[string]any{
				"recipe":      recipe.ID,
				"scalingMode": "portion",
				"parameter":   map[string]any{"desiredPortion": 2},
			},
			factor: 0.5, flour: 100, sugar: 50,
		},
		{
			name: "by availability without unit",
			body: map[string]any{
				"recipe":      recipe.ID,
				"scalingMode": "availability",
				"parameter":   map[string]any{"availableIngredientName": "flour", "availableWeight": 100},
			},
			factor: 0.5, flour: 100, sugar: 50,
		},
		{
			name: "by availability in kilograms",
			body: map[string]any{
				"recipe":      recipe.ID,
				"scalingMode": "availability",
				"parameter":   map[string]any{"availableIngredientName": "Sugar", "availableWeight": 0.3, "availableUnit": "kg"},
			},
			factor: 3, flour: 600, sugar: 300,
		},
		{
			name: "mode inferred",
			body: map[string]any{
				"recipe":    recipe.ID,
				"parameter": map[string]any{"desiredPortion": 8},
			},
			factor: 2, flour: 400, sugar: 200,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := ts.do(t, http.MethodPost, "/api/scale", tt.body)
			expectStatus(t, resp, data, fiber.StatusOK)
			got := decode[scaleBody](t, data)
			if !approx(got.Factor, tt.factor) {
				t.Fatalf("factor = %v, want %v", got.Factor, tt.factor)
			}
			if len(got.ScaledIngredients) != 2 {
				t.Fatalf("expected 2 ingredients, got %s", data)
			}
			flour, sugar := got.ScaledIngredients[0], got.ScaledIngredients[1]
			if flour.Name != "Flour" || !approx(flour.ScaledWeight, tt.flour) || flour.Unit != "g" {
				t.Errorf("flour = %+v, want %v g", flour, tt.flour)
			}
			if sugar.Name != "Sugar" || !approx(sugar.ScaledWeight, tt.sugar) || sugar.Unit != "g" {
				t.Errorf("sugar = %+v, want %v g", sugar, tt.sugar)
			}
			if got.RecipeID != recipe.ID {
				t.Errorf("recipeId = %q", got.RecipeID)
			}
		})
	}
}

func TestScaleEmbeddedRecipe(t *testing.T) {
	ts := newTestServer(t, false)

	resp, data := ts.do(t, http.MethodPost, "/api/scale", map[string]any{
		"recipe": map[string]any{
			"name":            "Lemonade",
			"originalPortion": 2,
			"ingredients": []map[string]any{
				{"name": "Water", "weight": 1, "unit": "l"},
				{"name": "Lemons", "weight": 3, "unit": "piece"},
			},
		},
		"scalingMode": "availability",
		"parameter":   map[string]any{"availableIngredientName": "Water", "availableWeight": 1500, "availableUnit": "ml"},
	})
	expectStatus(t, resp, data, fiber.StatusOK)

	got := decode[scaleBody](t, data)
	if !approx(got.ScaledIngredients[0].ScaledWeight, 1.5) || got.ScaledIngredients[0].Unit != "l" {
		t.Errorf("water = %+v", got.ScaledIngredients[0])
	}
	if !approx(got.ScaledIngredients[1].ScaledWeight, 4.5) || got.ScaledIngredients[1].Unit != "piece" {
		t.Errorf("lemons = %+v", got.ScaledIngredients[1])
	}
}

func TestScaleErrors(t *testing.T) {
	ts := newTestServer(t, false)
	recipe := createRecipe(t, ts, shortbread())

	tests := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{
			name:   "unknown recipe",
			body:   map[string]any{"recipe": "missing", "scalingMode": "portion", "parameter": map[string]any{"desiredPortion": 2}},
			status: fiber.StatusNotFound,
			code:   CodeRecipeNotFound,
		},
		{
			name:   "missing recipe",
			body:   map[string]any{"scalingMode": "portion", "parameter": map[string]any{"desiredPortion": 2}},
			status: fiber.StatusBadRequest,
			code:   "INVALID_PARAMETER",
		},
		{
			name:   "zero portion",
			body:   map[string]any{"recipe": recipe.ID, "scalingMode": "portion", "parameter": map[string]any{"desiredPortion": 0}},
			status: fiber.StatusBadRequest,
			code:   "INVALID_PARAMETER",
		},
		{
			name:   "unknown mode",
			body:   map[string]any{"recipe": recipe.ID, "scalingMode": "triple", "parameter": map[string]any{"desiredPortion": 2}},
			status: fiber.StatusBadRequest,
			code:   "INVALID_PARAMETER",
		},
		{
			name: "ingredient not found",
			body: map[string]any{"recipe": recipe.ID, "scalingMode": "availability",
				"parameter": map[string]any{"availableIngredientName": "Butter", "availableWeight": 50}},
			status: fiber.StatusNotFound,
			code:   "INGREDIENT_NOT_FOUND",
		},
		{
			name: "incompatible units",
			body: map[string]any{"recipe": recipe.ID, "scalingMode": "availability",
				"parameter": map[string]any{"availableIngredientName": "Flour", "availableWeight": 50, "availableUnit": "ml"}},
			status: fiber.StatusUnprocessableEntity,
			code:   "INCOMPATIBLE_UNITS",
		},
		{
			name: "empty embedded recipe",
			body: map[string]any{"recipe": map[string]any{"name": "Air", "originalPortion": 1, "ingredients": []any{}},
				"scalingMode": "portion", "parameter": map[string]any{"desiredPortion": 2}},
			status: fiber.StatusUnprocessableEntity,
			code:   "EMPTY_RECIPE",
		},
		{
			name: "factor overflow",
			body: map[string]any{"recipe": map[string]any{"name": "Shortbread", "originalPortion": 0.5,
				"ingredients": []map[string]any{{"name": "Flour", "weight": 200, "unit": "g"}}},
				"scalingMode": "portion", "parameter": map[string]any{"desiredPortion": 1e308}},
			status: fiber.StatusBadRequest,
			code:   "INVALID_PARAMETER",
		},
		{
			name: "available weight out of range",
			body: map[string]any{"recipe": recipe.ID, "scalingMode": "availability",
				"parameter": map[string]any{"availableIngredientName": "Flour", "availableWeight": 1e306, "availableUnit": "kg"}},
			status: fiber.StatusBadRequest,
			code:   "INVALID_PARAMETER",
		},
		{
			name: "embedded recipe with zero weight",
			body: map[string]any{"recipe": map[string]any{"name": "Air", "originalPortion": 1,
				"ingredients": []map[string]any{{"name": "Salt", "weight": 0, "unit": "g"}}},
				"scalingMode": "portion", "parameter": map[string]any{"desiredPortion": 2}},
			status: fiber.StatusUnprocessableEntity,
			code:   "INVALID_QUANTITY",
		},
		{
			name:   "malformed body",
			body:   "{",
			status: fiber.StatusBadRequest,
			code:   "INVALID_PARAMETER",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := ts.do(t, http.MethodPost, "/api/scale", tt.body)
			expectErrorCode(t, resp, data, tt.status, tt.code)
		})
	}
}

func TestShareLinkRoundTrip(t *testing.T) {
	ts := newTestServer(t, false)
	recipe := createRecipe(t, ts, shortbread())

	resp, data := ts.do(t, http.MethodPost, "/api/scale/share", map[string]any{
		"recipe":      recipe.ID,
		"scalingMode": "portion",
		"parameter":   map[string]any{"desiredPortion": 6},
	})
	expectStatus(t, resp, data, fiber.StatusCreated)

	share := decode[struct {
		Data struct {
			Token string `json:"token"`
			URL   string `json:"url"`
		} `json:"data"`
	}](t, data)
	if share.Data.Token == "" {
		t.Fatalf("no token in %s", data)
	}
	if want := "https://recipes.test/api/share/" + share.Data.Token; share.Data.URL != want {
		t.Fatalf("url = %q, want %q", share.Data.URL, want)
	}

	resp, data = ts.do(t, http.MethodGet, "/api/share/"+share.Data.Token, nil)
	expectStatus(t, resp, data, fiber.StatusOK)
	shared := decode[struct {
		Data struct {
			scaleBody
			RecipeName  string `json:"recipeName"`
			ScalingMode string `json:"scalingMode"`
		} `json:"data"`
	}](t, data)
	if shared.Data.RecipeName != "Shortbread" || shared.Data.ScalingMode != "portion" {
		t.Fatalf("unexpected shared view: %s", data)
	}
	if !approx(shared.Data.Factor, 1.5) || !approx(shared.Data.ScaledIngredients[0].ScaledWeight, 300) {
		t.Fatalf("unexpected shared scale: %s", data)
	}

	resp, data = ts.do(t, http.MethodGet, "/api/share/"+share.Data.Token+"x", nil)
	expectErrorCode(t, resp, data, fiber.StatusBadRequest, CodeInvalidShareToken)

	resp, data = ts.do(t, http.MethodDelete, "/api/recipes/"+recipe.ID, nil)
	expectStatus(t, resp, data, fiber.StatusOK)
	resp, data = ts.do(t, http.MethodGet, "/api/share/"+share.Data.Token, nil)
	expectErrorCode(t, resp, data, fiber.StatusNotFound, CodeRecipeNotFound)
}

func TestShareLinkValidatesRequest(t *testing.T) {
	ts := newTestServer(t, false)
	recipe := createRecipe(t, ts, shortbread())

	resp, data := ts.do(t, http.MethodPost, "/api/scale/share", map[string]any{
		"recipe":      recipe.ID,
		"scalingMode": "availability",
		"parameter":   map[string]any{"availableIngredientName": "Eggs", "availableWeight": 2},
	})
	expectErrorCode(t, resp, data, fiber.StatusNotFound, "INGREDIENT_NOT_FOUND")

	resp, data = ts.do(t, http.MethodPost, "/api/scale/share", map[string]any{
		"recipe":      shortbread(),
		"scalingMode": "portion",
		"parameter":   map[string]any{"desiredPortion": 2},
	})
	expectErrorCode(t, resp, data, fiber.StatusBadRequest, "INVALID_PARAMETER")
}

func multipartImage(t *testing.T, path, filename, contentType string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, filename))
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestRecipeImageLifecycle(t *testing.T) {
	ts := newTestServer(t, true)
	recipe := createRecipe(t, ts, shortbread())
	path := "/api/recipes/" + recipe.ID + "/image"

	resp, data := ts.do(t, http.MethodGet, path, nil)
	expectStatus(t, resp, data, fiber.StatusNotFound)

	resp, data = ts.send(t, multipartImage(t, path, "first.png", "image/png", []byte("png-1")))
	expectStatus(t, resp, data, fiber.StatusCreated)
	first := decode[struct {
		Data struct {
			ImageKey string `json:"imageKey"`
			URL      string `json:"url"`
		} `json:"data"`
	}](t, data)
	if !strings.HasPrefix(first.Data.ImageKey, "recipes/"+recipe.ID+"/") || !strings.HasSuffix(first.Data.ImageKey, ".png") {
		t.Fatalf("unexpected key %q", first.Data.ImageKey)
	}

	resp, data = ts.send(t, multipartImage(t, path, "second.jpg", "image/jpeg", []byte("jpg-2")))
	expectStatus(t, resp, data, fiber.StatusCreated)

	keys, _ := ts.images.ListKeys(context.Background(), "recipes/"+recipe.ID+"/")
	if len(keys) != 1 || !strings.HasSuffix(keys[0], ".jpg") {
		t.Fatalf("previous image not replaced, keys: %v", keys)
	}

	resp, data = ts.do(t, http.MethodGet, path, nil)
	expectStatus(t, resp, data, fiber.StatusOK)
	if !strings.Contains(string(data), "https://images.test/"+keys[0]) {
		t.Fatalf("unexpected url body: %s", data)
	}

	resp, data = ts.do(t, http.MethodDelete, "/api/recipes/"+recipe.ID, nil)
	expectStatus(t, resp, data, fiber.StatusOK)
	if keys, _ := ts.images.ListKeys(context.Background(), "recipes/"+recipe.ID+"/"); len(keys) != 0 {
		t.Fatalf("images left after delete: %v", keys)
	}
}

func TestRecipeImageValidation(t *testing.T) {
	ts := newTestServer(t, true)
	recipe := createRecipe(t, ts, shortbread())
	path := "/api/recipes/" + recipe.ID + "/image"

	resp, data := ts.send(t, multipartImage(t, path, "doc.pdf", "application/pdf", []byte("%PDF")))
	expectStatus(t, resp, data, fiber.StatusBadRequest)

	big := bytes.Repeat([]byte{0xff}, 1024*1024+1)
	resp, data = ts.send(t, multipartImage(t, path, "big.png", "image/png", big))
	expectStatus(t, resp, data, fiber.StatusBadRequest)

	resp, data = ts.send(t, multipartImage(t, "/api/recipes/missing/image", "a.png", "image/png", []byte("x")))
	expectErrorCode(t, resp, data, fiber.StatusNotFound, CodeRecipeNotFound)

	if keys, _ := ts.images.ListKeys(context.Background(), "recipes/"); len(keys) != 0 {
		t.Fatalf("rejected uploads were stored: %v", keys)
	}
}

func TestImageRoutesDisabledWithoutStorage(t *testing.T) {
	ts := newTestServer(t, false)
	recipe := createRecipe(t, ts, shortbread())

	resp, data := ts.do(t, http.MethodGet, fmt.Sprintf("/api/recipes/%s/image", recipe.ID), nil)
	expectStatus(t, resp, data, fiber.StatusNotFound)
}

func TestParseIngredientsEndpoint(t *testing.T) {
	ts := newTestServer(t, false)

	resp, data := ts.do(t, http.MethodPost, "/api/ingredients/parse", map[string]any{
		"content": "250 g flour\n2 cups rice\n3 eggs",
	})
	expectStatus(t, resp, data, fiber.StatusOK)
	got := decode[struct {
		Data struct {
			Ingredients []struct {
				Name   string  `json:"name"`
				Weight float64 `json:"weight"`
				Unit   string  `json:"unit"`
			} `json:"ingredients"`
			Rejected []struct {
				RawText string `json:"rawText"`
			} `json:"rejected"`
		} `json:"data"`
	}](t, data)
	if len(got.Data.Ingredients) != 2 || got.Data.Ingredients[1].Unit != "piece" {
		t.Fatalf("unexpected ingredients: %s", data)
	}
	if len(got.Data.Rejected) != 1 || got.Data.Rejected[0].RawText != "2 cups rice" {
		t.Fatalf("unexpected rejected lines: %s", data)
	}

	resp, data = ts.do(t, http.MethodPost, "/api/ingredients/parse", map[string]any{"content": "  "})
	expectStatus(t, resp, data, fiber.StatusBadRequest)
}

func approx(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-9
}
