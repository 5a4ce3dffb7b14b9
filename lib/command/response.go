package command

import "github.com/apache/activemq-openwire-sub001/lib/schema"

// Response answers the command whose id equals CorrelationID
type Response struct {
	BaseCommand
	CorrelationID int32
}

func (*Response) DataStructureType() byte { return ResponseType }
func (*Response) IsResponse() bool        { return true }

func (r *Response) response() *Response { return r }

type responder interface {
	response() *Response
}

type ExceptionResponse struct {
	Response
	Exception *BrokerError
}

func (*ExceptionResponse) DataStructureType() byte { return ExceptionResponseType }

type DataResponse struct {
	Response
	Data DataStructure
}

func (*DataResponse) DataStructureType() byte { return DataResponseType }

type DataArrayResponse struct {
	Response
	Data []DataStructure
}

func (*DataArrayResponse) DataStructureType() byte { return DataArrayResponseType }

type IntegerResponse struct {
	Response
	Result int32
}

func (*IntegerResponse) DataStructureType() byte { return IntegerResponseType }

var responseSchema = &schema.Schema{
	Name:     "Response",
	TypeCode: ResponseType,
	Base:     baseCommandSchema,
	Since:    1,
	Project:  func(obj any) any { return obj.(responder).response() },
	New:      func() any { return &Response{} },
	Properties: []schema.Property{
		field(schema.KindInt, "correlationId", 1, 1, func(o *Response) *int32 { return &o.CorrelationID }),
	},
}

func responseSubSchema(name string, code byte, newFn func() any, props ...schema.Property) *schema.Schema {
	return &schema.Schema{
		Name:       name,
		TypeCode:   code,
		Base:       responseSchema,
		Since:      1,
		New:        newFn,
		Properties: props,
	}
}

var exceptionResponseSchema = responseSubSchema("ExceptionResponse", ExceptionResponseType, func() any { return &ExceptionResponse{} },
	throwable("exception", 1, 1, func(o *ExceptionResponse) **BrokerError { return &o.Exception }),
)

var dataResponseSchema = responseSubSchema("DataResponse", DataResponseType, func() any { return &DataResponse{} },
	nested("data", 1, 1, func(o *DataResponse) *DataStructure { return &o.Data }),
)

var dataArrayResponseSchema = responseSubSchema("DataArrayResponse", DataArrayResponseType, func() any { return &DataArrayResponse{} },
	array("data", 1, 1, false, func(o *DataArrayResponse) *[]DataStructure { return &o.Data }),
)

var integerResponseSchema = responseSubSchema("IntegerResponse", IntegerResponseType, func() any { return &IntegerResponse{} },
	field(schema.KindInt, "result", 1, 1, func(o *IntegerResponse) *int32 { return &o.Result }),
)
