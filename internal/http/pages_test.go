package handlers_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appliancestore/internal/http/handlers"
)

func TestHomeShowsActiveSlidesAndMenu(t *testing.T) {
	env := newTestApp(t)

	resp := env.do(t, httptest.NewRequest("GET", "/", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "/static/slider1.png")
	assert.Contains(t, body, "Стиральные машины")
}

func TestCategoryPageAppliesFilters(t *testing.T) {
	env := newTestApp(t)

	resp := env.do(t, httptest.NewRequest("GET", "/categories/3", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "Производитель")
	assert.Contains(t, body, "UE43CU7100")
	assert.Contains(t, body, "55UR78006LK")

	resp = env.do(t, httptest.NewRequest("GET", "/categories/3?filter_1=Samsung", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = readBody(t, resp)
	assert.Contains(t, body, "UE43CU7100")
	assert.NotContains(t, body, "55UR78006LK")
	assert.NotContains(t, body, "32LEM")

	// one value per key, joined with commas
	resp = env.do(t, httptest.NewRequest("GET", "/categories/3?filter_2=32,55&sort=desc", nil))
	body = readBody(t, resp)
	assert.Contains(t, body, "32LEM")
	assert.Contains(t, body, "55UR78006LK")
	assert.NotContains(t, body, "UE43CU7100")
}

func TestCategoryPageOutOfRangePage(t *testing.T) {
	env := newTestApp(t)

	for _, page := range []string{"4611686018427387904", "9223372036854775807", "99"} {
		resp := env.do(t, httptest.NewRequest("GET", "/categories/1?page="+page, nil))
		assert.Equalf(t, http.StatusOK, resp.StatusCode, "page %s", page)
	}
}

func TestCategoryPageNotFound(t *testing.T) {
	env := newTestApp(t)

	for _, path := range []string{"/categories/999", "/categories/abc", "/products/999", "/products/-1"} {
		resp := env.do(t, httptest.NewRequest("GET", path, nil))
		assert.Equalf(t, http.StatusNotFound, resp.StatusCode, "path %s", path)
	}
}

func TestProductPageShowsFilterValues(t *testing.T) {
	env := newTestApp(t)

	resp := env.do(t, httptest.NewRequest("GET", "/products/4", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "Телевизор Samsung UE43CU7100")
	assert.Contains(t, body, "По диагонали")
	assert.Contains(t, body, "Телевизоры")
}

func TestSearchPage(t *testing.T) {
	env := newTestApp(t)

	resp := env.do(t, httptest.NewRequest("GET", "/search", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// unavailable products are still found
	resp = env.do(t, httptest.NewRequest("GET", "/search?q="+url.QueryEscape("чайник"), nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Polaris")

	resp = env.do(t, httptest.NewRequest("GET", "/search?q="+url.QueryEscape("bad\x01query"), nil))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestInfoPages(t *testing.T) {
	env := newTestApp(t)

	for _, slug := range []string{"delivery", "credit", "service", "shops", "feedback"} {
		resp := env.do(t, httptest.NewRequest("GET", "/"+slug, nil))
		assert.Equalf(t, http.StatusOK, resp.StatusCode, "page %s", slug)
	}
	resp := env.do(t, httptest.NewRequest("GET", "/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.do(t, httptest.NewRequest("GET", "/api/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var out map[string]any
	decodeJSON(t, resp, &out)
	assert.Equal(t, "Not found", out["error"])
}

// adminSession logs in with the form and returns the cookies an admin browser holds.
func adminSession(t *testing.T, env *testEnv) (session, csrf string) {
	t.Helper()
	csrf = env.csrfToken(t)
	resp := env.do(t, formRequest("POST", "/admin/login", loginForm(csrf, testAdmin, testPassword), csrf))
	require.Equal(t, http.StatusFound, resp.StatusCode)
	session = cookieValue(resp, handlers.SessionCookie)
	require.NotEmpty(t, session)
	return session, csrf
}

func adminForm(method, target string, vals url.Values, session, csrf string) *http.Request {
	vals.Set("csrf", csrf)
	req := formRequest(method, target, vals.Encode(), csrf)
	req.AddCookie(&http.Cookie{Name: handlers.SessionCookie, Value: session})
	return req
}

func TestAdminCategoryAndProductForms(t *testing.T) {
	env := newTestApp(t)
	session, csrf := adminSession(t, env)

	resp := env.do(t, adminForm("POST", "/admin/categories/new", url.Values{"name": {""}}, session, csrf))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, adminForm("POST", "/admin/categories/new",
		url.Values{"name": {"Пылесосы"}, "menu_display": {"on"}}, session, csrf))
	require.Equal(t, http.StatusFound, resp.StatusCode)

	cats, err := env.deps.AdminHandler.Catalog.ListCategories()
	require.NoError(t, err)
	var vacuumID int64
	for _, c := range cats {
		if c.Name == "Пылесосы" {
			vacuumID = c.ID
		}
	}
	require.NotZero(t, vacuumID)

	resp = env.do(t, adminForm("POST", "/admin/products/new", url.Values{
		"name": {"Dyson V15"}, "price": {"-5"}, "category_id": {itoa64(vacuumID)},
	}, session, csrf))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, adminForm("POST", "/admin/products/new", url.Values{
		"name": {"Dyson V15"}, "price": {"59 990"}, "category_id": {itoa64(vacuumID)}, "availability": {"on"},
	}, session, csrf))
	require.Equal(t, http.StatusFound, resp.StatusCode)

	prods, err := env.deps.AdminHandler.Catalog.ProductsByCategory(vacuumID)
	require.NoError(t, err)
	require.Len(t, prods, 1)
	assert.Equal(t, "59990", prods[0].Price.Decimal.String())

	// edit page loads for the new product
	req := httptest.NewRequest("GET", "/admin/products/"+itoa64(prods[0].ID)+"/edit", nil)
	req.AddCookie(&http.Cookie{Name: handlers.SessionCookie, Value: session})
	resp = env.do(t, req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, adminForm("POST", "/admin/categories/"+itoa64(vacuumID)+"/delete", url.Values{}, session, csrf))
	require.Equal(t, http.StatusFound, resp.StatusCode)
	_, err = env.deps.AdminHandler.Catalog.GetProduct(prods[0].ID)
	assert.Error(t, err, "products go with their category")
}

func TestAdminProductFilterValues(t *testing.T) {
	env := newTestApp(t)
	session, csrf := adminSession(t, env)

	resp := env.do(t, adminForm("POST", "/admin/products/3/edit", url.Values{
		"name": {"Телевизор BBK 32LEM-1046TS/2C"}, "price": {"12990"}, "category_id": {"3"},
		"availability": {"on"}, "filter_1": {"BBK"}, "filter_2": {""},
	}, session, csrf))
	require.Equal(t, http.StatusFound, resp.StatusCode)

	vals, err := env.deps.FilterHandler.Filters.ProductValues(3)
	require.NoError(t, err)
	require.Len(t, vals, 1)
	assert.Equal(t, "BBK", vals[0].Value)
}

func TestAdminFilterForms(t *testing.T) {
	env := newTestApp(t)
	session, csrf := adminSession(t, env)

	resp := env.do(t, adminForm("POST", "/admin/categories/3/filters/new",
		url.Values{"filter_name": {"Smart TV"}, "filter_type": {"radio"}, "display_order": {"3"}}, session, csrf))
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/admin/categories/3/filters", resp.Header.Get("Location"))

	resp = env.do(t, adminForm("POST", "/admin/categories/3/filters/new",
		url.Values{"filter_name": {"smart tv"}, "filter_type": {"radio"}}, session, csrf))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "duplicate names are rejected")

	resp = env.do(t, adminForm("POST", "/admin/categories/3/filters/new",
		url.Values{"filter_name": {"Цвет"}, "filter_type": {"slider"}}, session, csrf))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	filters, err := env.deps.FilterHandler.Filters.ForCategory(3)
	require.NoError(t, err)
	require.Len(t, filters, 3)
	smart := filters[2]

	resp = env.do(t, adminForm("POST", "/admin/categories/3/filters/"+itoa64(smart.ID)+"/options/new",
		url.Values{"option_value": {"Да"}}, session, csrf))
	require.Equal(t, http.StatusFound, resp.StatusCode)

	req := httptest.NewRequest("GET", "/admin/categories/3/filters", nil)
	req.AddCookie(&http.Cookie{Name: handlers.SessionCookie, Value: session})
	resp = env.do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Smart TV")
}

func TestAdminSliderForms(t *testing.T) {
	env := newTestApp(t)
	session, csrf := adminSession(t, env)

	resp := env.do(t, adminForm("POST", "/admin/sliders/new",
		url.Values{"title": {"Без картинки"}}, session, csrf))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, adminForm("POST", "/admin/sliders/new",
		url.Values{"image_url": {"/media/a.png"}, "title": {"Акция"}, "order_index": {"9"}}, session, csrf))
	require.Equal(t, http.StatusFound, resp.StatusCode)

	sliders, err := env.deps.SliderHandler.Sliders.List()
	require.NoError(t, err)
	require.Len(t, sliders, 4)
	last := sliders[3]
	assert.Equal(t, "Акция", last.Title)
	assert.False(t, last.IsActive, "unchecked box means inactive")

	resp = env.do(t, adminForm("POST", "/admin/sliders/"+itoa64(last.ID)+"/delete", url.Values{}, session, csrf))
	require.Equal(t, http.StatusFound, resp.StatusCode)
}

func adminMultipart(t *testing.T, target string, vals url.Values, field, filename string, content []byte, session, csrf string) *http.Request {
	t.Helper()
	vals.Set("csrf", csrf)
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, vs := range vals {
		for _, v := range vs {
			require.NoError(t, w.WriteField(k, v))
		}
	}
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", target, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: csrf})
	req.AddCookie(&http.Cookie{Name: handlers.SessionCookie, Value: session})
	return req
}

func mediaFiles(t *testing.T, env *testEnv) []string {
	t.Helper()
	entries, err := os.ReadDir(env.cfg.MediaDir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), ".") {
			names = append(names, e.Name())
		}
	}
	return names
}

func TestAdminFormsStoreUploadsOnlyWhenValid(t *testing.T) {
	env := newTestApp(t)
	session, csrf := adminSession(t, env)

	resp := env.do(t, adminMultipart(t, "/admin/products/new", url.Values{
		"name": {"Dyson V15"}, "price": {"-5"}, "category_id": {"3"},
	}, "photo", "dyson.png", pngBytes, session, csrf))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, mediaFiles(t, env), "rejected product form leaves no file behind")

	resp = env.do(t, adminMultipart(t, "/admin/products/3/edit", url.Values{
		"name": {""}, "price": {"12990"}, "category_id": {"3"},
	}, "photo", "bbk.png", pngBytes, session, csrf))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, mediaFiles(t, env))

	resp = env.do(t, adminMultipart(t, "/admin/sliders/new", url.Values{
		"title": {"Акция"}, "link_url": {"javascript:alert(1)"},
	}, "image", "sale.png", pngBytes, session, csrf))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, mediaFiles(t, env), "rejected slider form leaves no file behind")

	resp = env.do(t, adminMultipart(t, "/admin/products/new", url.Values{
		"name": {"Dyson V15"}, "price": {"59990"}, "category_id": {"3"}, "photo_url": {"javascript:x"},
	}, "photo", "dyson.png", pngBytes, session, csrf))
	require.Equal(t, http.StatusFound, resp.StatusCode, "the upload replaces photo_url")
	require.Len(t, mediaFiles(t, env), 1)
}
